package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wortschatz/internal/domain"
	"wortschatz/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Stats summarizes one import run.
type Stats struct {
	Created int
	Updated int
	Skipped int
}

// wordRecord is the on-disk shape of one vocabulary entry.
type wordRecord struct {
	Lemma              string `json:"lemma"`
	Article            string `json:"article"`
	Plural             string `json:"plural"`
	PartOfSpeech       string `json:"part_of_speech"`
	Level              string `json:"level"`
	Lesson             string `json:"lesson"`
	Translation        string `json:"translation"`
	ExampleSentence    string `json:"example_sentence"`
	ExampleTranslation string `json:"example_translation"`
	IPA                string `json:"ipa"`
	FrequencyRank      int    `json:"frequency_rank"`
}

// csvColumns is the expected header order for CSV and XLSX files.
var csvColumns = []string{
	"lemma", "article", "plural", "part_of_speech", "level", "lesson",
	"translation", "example_sentence", "example_translation", "ipa",
	"frequency_rank",
}

// Importer loads vocabulary files into the word store. JSON, CSV and
// XLSX files are supported; entries are deduplicated by lemma within a
// run and upserted so re-imports are safe.
type Importer struct {
	words  repository.WordRepository
	logger *zap.Logger
}

// NewImporter creates a vocabulary importer.
func NewImporter(words repository.WordRepository, logger *zap.Logger) *Importer {
	return &Importer{words: words, logger: logger}
}

// ImportDir imports every supported vocabulary file in dir,
// non-recursively. Unsupported files are ignored.
func (i *Importer) ImportDir(dir string) (Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read vocab dir: %w", err)
	}

	var total Stats
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".csv" && ext != ".xlsx" {
			continue
		}

		stats, err := i.ImportFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return total, fmt.Errorf("failed to import %s: %w", entry.Name(), err)
		}
		total.Created += stats.Created
		total.Updated += stats.Updated
		total.Skipped += stats.Skipped
	}

	i.logger.Info("Vocabulary import finished",
		zap.String("dir", dir),
		zap.Int("created", total.Created),
		zap.Int("updated", total.Updated),
		zap.Int("skipped", total.Skipped),
	)
	return total, nil
}

// ImportFile imports a single vocabulary file, dispatching on extension.
func (i *Importer) ImportFile(path string) (Stats, error) {
	var records []wordRecord
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		records, err = readJSON(path)
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		return Stats{}, fmt.Errorf("unsupported vocab file: %s", path)
	}
	if err != nil {
		return Stats{}, err
	}

	return i.store(records)
}

func (i *Importer) store(records []wordRecord) (Stats, error) {
	var stats Stats
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		rec.Lemma = strings.TrimSpace(rec.Lemma)
		rec.Translation = strings.TrimSpace(rec.Translation)

		if rec.Lemma == "" || rec.Translation == "" || seen[rec.Lemma] {
			stats.Skipped++
			continue
		}
		seen[rec.Lemma] = true

		created, err := i.words.Upsert(&domain.Word{
			Lemma:              rec.Lemma,
			Article:            rec.Article,
			Plural:             rec.Plural,
			PartOfSpeech:       rec.PartOfSpeech,
			Level:              defaultLevel(rec.Level),
			Lesson:             rec.Lesson,
			Translation:        rec.Translation,
			ExampleSentence:    rec.ExampleSentence,
			ExampleTranslation: rec.ExampleTranslation,
			IPA:                rec.IPA,
			FrequencyRank:      rec.FrequencyRank,
		})
		if err != nil {
			return stats, fmt.Errorf("failed to upsert %q: %w", rec.Lemma, err)
		}

		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}

	return stats, nil
}

func defaultLevel(level string) string {
	if level == "" {
		return "A1"
	}
	return level
}

func readJSON(path string) ([]wordRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var records []wordRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return records, nil
}

func readCSV(path string) ([]wordRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	var records []wordRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		records = append(records, recordFromRow(header, row))
	}
	return records, nil
}

func readXLSX(path string) ([]wordRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	var records []wordRecord
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(header, row))
	}
	return records, nil
}

// recordFromRow maps a header-indexed row into a record. Unknown
// columns are ignored so files may carry extras.
func recordFromRow(header, row []string) wordRecord {
	cell := func(name string) string {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	rank, _ := strconv.Atoi(cell("frequency_rank"))

	return wordRecord{
		Lemma:              cell("lemma"),
		Article:            cell("article"),
		Plural:             cell("plural"),
		PartOfSpeech:       cell("part_of_speech"),
		Level:              cell("level"),
		Lesson:             cell("lesson"),
		Translation:        cell("translation"),
		ExampleSentence:    cell("example_sentence"),
		ExampleTranslation: cell("example_translation"),
		IPA:                cell("ipa"),
		FrequencyRank:      rank,
	}
}
