package repository

import (
	"context"
	"fmt"
	"time"

	"lexalign-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CaseRepository handles database operations for case records and
// legislation sections
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// Name identifies the repository as a corpus source
func (r *CaseRepository) Name() string {
	return "postgres"
}

// Load reads every case record and legislation section
func (r *CaseRepository) Load(ctx context.Context) (*models.Corpus, error) {
	cases, err := r.ListCases(ctx, 0)
	if err != nil {
		return nil, err
	}
	legislation, err := r.ListLegislation(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Corpus{
		Cases:       cases,
		Legislation: legislation,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

// ListCases returns case records in insertion order. A limit of 0 or less
// returns everything.
func (r *CaseRepository) ListCases(ctx context.Context, limit int) ([]models.CaseRecord, error) {
	query := `
		SELECT citation, text, date, jurisdiction, type, primary_category, outcome
		FROM case_records
		ORDER BY id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query case records: %w", err)
	}
	defer rows.Close()

	cases := []models.CaseRecord{}
	for rows.Next() {
		var rec models.CaseRecord
		err := rows.Scan(
			&rec.Citation,
			&rec.Text,
			&rec.Date,
			&rec.Jurisdiction,
			&rec.Type,
			&rec.Classification.PrimaryCategory,
			&rec.Outcome,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan case record: %w", err)
		}
		cases = append(cases, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating case records: %w", err)
	}

	return cases, nil
}

// sectionRow is one legislation_sections row with its act
type sectionRow struct {
	act     models.Act
	section models.LegislationSection
}

// groupByAct folds consecutive rows of the same act into documents
func groupByAct(rows []sectionRow) []models.LegislationDocument {
	docs := []models.LegislationDocument{}
	for _, row := range rows {
		if n := len(docs); n > 0 && docs[n-1].Act == row.act {
			docs[n-1].Sections = append(docs[n-1].Sections, row.section)
			continue
		}
		docs = append(docs, models.LegislationDocument{
			Act:      row.act,
			Sections: []models.LegislationSection{row.section},
		})
	}
	return docs
}

// ListLegislation returns every act with its sections in stored order
func (r *CaseRepository) ListLegislation(ctx context.Context) ([]models.LegislationDocument, error) {
	query := `
		SELECT act_name, act_citation, section, subsection, title, legal_test, keywords, summary
		FROM legislation_sections
		ORDER BY act_name, position`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query legislation sections: %w", err)
	}
	defer rows.Close()

	var sectionRows []sectionRow
	for rows.Next() {
		var row sectionRow
		err := rows.Scan(
			&row.act.Name,
			&row.act.Citation,
			&row.section.Section,
			&row.section.Subsection,
			&row.section.Title,
			&row.section.LegalTest,
			&row.section.Keywords,
			&row.section.Summary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legislation section: %w", err)
		}
		sectionRows = append(sectionRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legislation sections: %w", err)
	}

	return groupByAct(sectionRows), nil
}

// UpsertCase inserts a case record, replacing any record with the same
// citation
func (r *CaseRepository) UpsertCase(ctx context.Context, rec models.CaseRecord, kind models.RecordKind) error {
	query := `
		INSERT INTO case_records (
			citation, text, date, jurisdiction, type, primary_category, outcome, kind
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (citation) DO UPDATE SET
			text = EXCLUDED.text,
			date = EXCLUDED.date,
			jurisdiction = EXCLUDED.jurisdiction,
			type = EXCLUDED.type,
			primary_category = EXCLUDED.primary_category,
			outcome = EXCLUDED.outcome,
			kind = EXCLUDED.kind,
			updated_at = NOW()`

	_, err := r.db.Exec(
		ctx, query,
		rec.Citation,
		rec.Text,
		rec.Date,
		rec.Jurisdiction,
		rec.Type,
		rec.Classification.PrimaryCategory,
		rec.Outcome,
		string(kind),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert case record %q: %w", rec.Citation, err)
	}
	return nil
}

// ReplaceLegislation swaps all stored sections of doc's act for doc's
// sections in one transaction
func (r *CaseRepository) ReplaceLegislation(ctx context.Context, doc models.LegislationDocument) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM legislation_sections WHERE act_name = $1`, doc.Act.Name); err != nil {
		return fmt.Errorf("failed to clear sections of %q: %w", doc.Act.Name, err)
	}

	insert := `
		INSERT INTO legislation_sections (
			act_name, act_citation, position, section, subsection, title, legal_test, keywords, summary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, s := range doc.Sections {
		keywords := s.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		_, err := tx.Exec(ctx, insert,
			doc.Act.Name,
			doc.Act.Citation,
			i,
			s.Section,
			s.Subsection,
			s.Title,
			s.LegalTest,
			keywords,
			s.Summary,
		)
		if err != nil {
			return fmt.Errorf("failed to insert section %s of %q: %w", s.Section, doc.Act.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit legislation: %w", err)
	}
	return nil
}

// Counts returns the number of stored case records and legislation sections
func (r *CaseRepository) Counts(ctx context.Context) (cases int, sections int, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM case_records),
			(SELECT COUNT(*) FROM legislation_sections)`,
	).Scan(&cases, &sections)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count corpus rows: %w", err)
	}
	return cases, sections, nil
}
