package catalog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/medsafe/interactions-api/catalog/entities"
	"github.com/medsafe/interactions-api/logging"
)

// Dataset file names expected inside the dataset directory.
const (
	drugsFile             = "drugs.tsv"
	interactionsFile      = "interactions.tsv"
	dosageBandsFile       = "dosage_bands.tsv"
	contraindicationsFile = "contraindications.tsv"
)

// FileLoader reads the tabular dataset from a directory of TSV files.
// Lines starting with '#' are comments. Any format error is a load error:
// dataset integrity is checked once at load time, never at request time.
type FileLoader struct {
	dir string
}

// NewFileLoader creates a loader reading from the given dataset directory.
func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

// Load parses the four dataset files concurrently and returns the raw
// records. Callers validate integrity and build the indexed catalog.
func (l *FileLoader) Load() ([]entities.Drug, []entities.InteractionRecord, []entities.DosageBand, []entities.Contraindication, error) {
	var (
		wg sync.WaitGroup

		drugs      []entities.Drug
		records    []entities.InteractionRecord
		bands      []entities.DosageBand
		contras    []entities.Contraindication
		drugsErr   error
		recsErr    error
		bandsErr   error
		contrasErr error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		drugs, drugsErr = l.loadDrugs()
	}()
	go func() {
		defer wg.Done()
		records, recsErr = l.loadInteractions()
	}()
	go func() {
		defer wg.Done()
		bands, bandsErr = l.loadDosageBands()
	}()
	go func() {
		defer wg.Done()
		contras, contrasErr = l.loadContraindications()
	}()
	wg.Wait()

	for _, err := range []error{drugsErr, recsErr, bandsErr, contrasErr} {
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	logging.Info("Dataset files parsed",
		"drugs", len(drugs),
		"interactions", len(records),
		"dosage_bands", len(bands),
		"contraindications", len(contras),
	)

	return drugs, records, bands, contras, nil
}

func (l *FileLoader) loadDrugs() ([]entities.Drug, error) {
	var drugs []entities.Drug

	err := l.scanTSV(drugsFile, 4, func(line int, fields []string) error {
		id := strings.TrimSpace(fields[0])
		name := strings.TrimSpace(fields[1])
		class := strings.TrimSpace(fields[3])
		if id == "" || name == "" || class == "" {
			return fmt.Errorf("missing identifier, name or class")
		}

		var synonyms []string
		for _, synonym := range strings.Split(fields[2], "|") {
			if trimmed := strings.TrimSpace(synonym); trimmed != "" {
				synonyms = append(synonyms, trimmed)
			}
		}

		drugs = append(drugs, entities.Drug{
			ID:       id,
			Name:     name,
			Synonyms: synonyms,
			Class:    class,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drugs, nil
}

func (l *FileLoader) loadInteractions() ([]entities.InteractionRecord, error) {
	var records []entities.InteractionRecord

	err := l.scanTSV(interactionsFile, 4, func(line int, fields []string) error {
		a := strings.TrimSpace(fields[0])
		b := strings.TrimSpace(fields[1])
		if a == "" || b == "" {
			return fmt.Errorf("missing drug identifier")
		}
		if a == b {
			return fmt.Errorf("self-interaction for drug %s", a)
		}

		severity, err := entities.ParseSeverity(strings.TrimSpace(fields[2]))
		if err != nil {
			return err
		}

		// Store each pair in lexical order so the unordered pair has one
		// canonical representation regardless of dataset column order.
		if b < a {
			a, b = b, a
		}

		records = append(records, entities.InteractionRecord{
			DrugA:     a,
			DrugB:     b,
			Severity:  severity,
			Mechanism: strings.TrimSpace(fields[3]),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (l *FileLoader) loadDosageBands() ([]entities.DosageBand, error) {
	var bands []entities.DosageBand

	err := l.scanTSV(dosageBandsFile, 8, func(line int, fields []string) error {
		id := strings.TrimSpace(fields[0])
		if id == "" {
			return fmt.Errorf("missing drug identifier")
		}

		ageMin, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return fmt.Errorf("invalid age_min: %w", err)
		}
		ageMax, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("invalid age_max: %w", err)
		}

		weightMin, err := optionalFloat(fields[3])
		if err != nil {
			return fmt.Errorf("invalid weight_min: %w", err)
		}
		weightMax, err := optionalFloat(fields[4])
		if err != nil {
			return fmt.Errorf("invalid weight_max: %w", err)
		}

		dose, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
		if err != nil {
			return fmt.Errorf("invalid dose: %w", err)
		}
		maxDose, err := strconv.ParseFloat(strings.TrimSpace(fields[6]), 64)
		if err != nil {
			return fmt.Errorf("invalid max_dose: %w", err)
		}

		unit := strings.TrimSpace(fields[7])
		if unit == "" {
			return fmt.Errorf("missing unit")
		}

		bands = append(bands, entities.DosageBand{
			DrugID:    id,
			AgeMin:    ageMin,
			AgeMax:    ageMax,
			WeightMin: weightMin,
			WeightMax: weightMax,
			Dose:      dose,
			MaxDose:   maxDose,
			Unit:      unit,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bands, nil
}

func (l *FileLoader) loadContraindications() ([]entities.Contraindication, error) {
	var contras []entities.Contraindication

	err := l.scanTSV(contraindicationsFile, 4, func(line int, fields []string) error {
		id := strings.TrimSpace(fields[0])
		if id == "" {
			return fmt.Errorf("missing drug identifier")
		}

		ageMin, err := optionalInt(fields[1])
		if err != nil {
			return fmt.Errorf("invalid age_min: %w", err)
		}
		ageMax, err := optionalInt(fields[2])
		if err != nil {
			return fmt.Errorf("invalid age_max: %w", err)
		}

		warning := strings.TrimSpace(fields[3])
		if warning == "" {
			return fmt.Errorf("missing warning text")
		}

		contras = append(contras, entities.Contraindication{
			DrugID:  id,
			AgeMin:  ageMin,
			AgeMax:  ageMax,
			Warning: warning,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contras, nil
}

// scanTSV streams a dataset file line by line, skipping blank lines and
// '#' comments, and hands each record to parse. Any parse failure aborts
// the whole load with the file name and line number attached.
func (l *FileLoader) scanTSV(name string, minFields int, parse func(line int, fields []string) error) error {
	path := filepath.Join(l.dir, name)
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close dataset file", "file", name, "error", err)
		}
	}()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if len(strings.TrimSpace(line)) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < minFields {
			return fmt.Errorf("%s:%d: expected %d columns, got %d", name, lineNum, minFields, len(fields))
		}

		if err := parse(lineNum, fields); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	return nil
}

func optionalInt(field string) (*int, error) {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalFloat(field string) (*float64, error) {
	trimmed := strings.TrimSpace(field)
	if trimmed == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
