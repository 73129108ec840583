package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"lexalign-backend/models"

	"go.uber.org/zap"
)

// maxRecordSize bounds a single JSONL line; full judgments can be large
const maxRecordSize = 16 * 1024 * 1024

// DecodeCases reads one JSON case record per line. Blank lines are ignored;
// lines that are not valid JSON, carry no citation or exceed maxRecordSize
// are skipped and counted rather than failing the load.
func DecodeCases(r io.Reader, logger *zap.Logger) ([]models.CaseRecord, int, error) {
	return decodeCases(r, maxRecordSize, logger)
}

func decodeCases(r io.Reader, maxSize int, logger *zap.Logger) ([]models.CaseRecord, int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := bufio.NewReaderSize(r, 64*1024)
	cases := []models.CaseRecord{}
	skipped := 0
	line := 0
	for {
		raw, tooLong, err := readLine(reader, maxSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, skipped, fmt.Errorf("failed to read corpus at line %d: %w", line+1, err)
		}
		eof := err != nil
		if eof && len(raw) == 0 && !tooLong {
			break
		}
		line++

		switch raw = bytes.TrimSpace(raw); {
		case tooLong:
			skipped++
			logger.Warn("skipping oversized corpus record", zap.Int("line", line), zap.Int("max_bytes", maxSize))
		case len(raw) == 0:
		default:
			var rec models.CaseRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				skipped++
				logger.Warn("skipping malformed corpus record", zap.Int("line", line), zap.Error(err))
			} else if strings.TrimSpace(rec.Citation) == "" {
				skipped++
				logger.Warn("skipping corpus record without citation", zap.Int("line", line))
			} else {
				cases = append(cases, rec)
			}
		}
		if eof {
			break
		}
	}

	return cases, skipped, nil
}

// readLine returns the next line without its newline. A line longer than
// maxSize is drained to its end and reported as tooLong with no content.
// err is io.EOF when the input ended on this line.
func readLine(r *bufio.Reader, maxSize int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(bytes.TrimSuffix(chunk, []byte("\n"))) > maxSize {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		switch {
		case err == nil:
			return bytes.TrimSuffix(line, []byte("\n")), tooLong, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return line, tooLong, err
		}
	}
}

// DecodeLegislation reads either a single legislation document or an array
// of them.
func DecodeLegislation(r io.Reader) ([]models.LegislationDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read legislation: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []models.LegislationDocument{}, nil
	}

	if data[0] == '[' {
		var docs []models.LegislationDocument
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("failed to parse legislation: %w", err)
		}
		return docs, nil
	}

	var doc models.LegislationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse legislation: %w", err)
	}
	return []models.LegislationDocument{doc}, nil
}

// BlobCorpusSource loads the corpus from objects in a Storage backend
type BlobCorpusSource struct {
	store          Storage
	casesKey       string
	legislationKey string
	logger         *zap.Logger
}

// NewBlobCorpusSource creates a corpus source reading casesKey (JSONL) and
// legislationKey (JSON). An empty legislationKey means no legislation.
func NewBlobCorpusSource(store Storage, casesKey, legislationKey string, logger *zap.Logger) *BlobCorpusSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlobCorpusSource{
		store:          store,
		casesKey:       casesKey,
		legislationKey: legislationKey,
		logger:         logger,
	}
}

// Name identifies the source in stats and logs
func (s *BlobCorpusSource) Name() string {
	return "storage"
}

// Load reads both objects. A missing legislation object is logged and
// treated as empty; a missing cases object is an error.
func (s *BlobCorpusSource) Load(ctx context.Context) (*models.Corpus, error) {
	rc, err := s.store.Download(ctx, s.casesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open case corpus: %w", err)
	}
	cases, skipped, err := DecodeCases(rc, s.logger)
	rc.Close()
	if err != nil {
		return nil, err
	}

	legislation, err := s.loadLegislation(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Corpus{
		Cases:       cases,
		Legislation: legislation,
		Skipped:     skipped,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

func (s *BlobCorpusSource) loadLegislation(ctx context.Context) ([]models.LegislationDocument, error) {
	if s.legislationKey == "" {
		return []models.LegislationDocument{}, nil
	}

	rc, err := s.store.Download(ctx, s.legislationKey)
	if errors.Is(err, ErrNotFound) {
		s.logger.Warn("legislation object not found, continuing without legislation", zap.String("key", s.legislationKey))
		return []models.LegislationDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open legislation: %w", err)
	}
	defer rc.Close()

	return DecodeLegislation(rc)
}
