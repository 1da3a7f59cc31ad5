// Package datagen produces synthetic person and contact datasets in the
// shape the report job reads, for local runs and load checks.
package datagen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/contactreport/internal/adapters/dataset"
	"github.com/okian/contactreport/internal/domain/contact"
	"github.com/okian/contactreport/internal/domain/model"
	"github.com/okian/contactreport/internal/domain/person"
	"github.com/okian/contactreport/pkg/logger"
)

// Shape of generated rows.
const (
	minAge            = 18
	ageSpan           = 63
	singleNameEvery   = 25
	digitNameEvery    = 40
	digitNameMax      = 10000
	contactWindow     = 30 * 24 * time.Hour
	maxContactLength  = 2 * time.Hour
	timestampLayout   = "2006-01-02T15:04:05"
	dirPermission     = 0o755
	secondsPerMinute  = 60
	smallSurnameShare = 2 // every other surname is known to the small table
)

var firstNames = []string{ //nolint:gochecknoglobals // static name pool
	"Ivan", "Maria", "Oleg", "Anna", "Pavel", "Olga", "Sergey", "Elena",
	"Dmitry", "Irina", "Nikolai", "Tatiana", "Alexei", "Natalia", "Yuri", "Vera",
}

var lastNames = []string{ //nolint:gochecknoglobals // static name pool
	"Ivanov", "Petrov", "Sidorov", "Smirnov", "Kuznetsov", "Popov", "Volkov",
	"Sokolov", "Lebedev", "Kozlov", "Novikov", "Morozov", "Orlov", "Belov",
}

// Generate builds the four input tables from cfg. The same non-zero seed
// always yields the same dataset.
func Generate(ctx context.Context, cfg Config) (*dataset.Sources, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = seedFromUUID(uuid.New())
	}
	rng := rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // synthetic data, not security sensitive
	stats := Stats{Seed: seed}

	logger.Get().Info(ctx, "generating dataset",
		logger.Int("persons", cfg.Persons),
		logger.Int("contacts", cfg.Contacts),
		logger.String("seed", strconv.FormatUint(seed, 10)),
	)

	src := &dataset.Sources{}
	src.PersonsLarge = generatePersons(rng, cfg.Persons)
	src.PersonsSmall = pickSmall(rng, src.PersonsLarge, cfg.SmallFraction)
	stats.Persons = len(src.PersonsLarge)
	stats.SmallPersons = len(src.PersonsSmall)

	for i := 0; i < cfg.Contacts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, fmt.Errorf("context cancelled during generation: %w", err)
		}
		rec, short := generateContact(rng, cfg, src.PersonsLarge)
		if short {
			stats.Short++
		}
		copies := 1
		if rng.Float64() < cfg.DuplicateRate {
			copies = 2
			stats.Duplicates++
		}
		for range copies {
			if rng.Float64() < cfg.SmallFraction {
				src.ContactsSmall = append(src.ContactsSmall, rec)
			} else {
				src.ContactsLarge = append(src.ContactsLarge, rec)
			}
		}
	}
	stats.Contacts = cfg.Contacts

	logger.Get().Info(ctx, "generated dataset",
		logger.Int("smallPersons", stats.SmallPersons),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("short", stats.Short),
	)
	return src, stats, nil
}

// Write stores src at the four paths, creating parent directories.
func Write(ctx context.Context, p dataset.Paths, src *dataset.Sources) error {
	files := []struct {
		path    string
		records any
	}{
		{p.PersonsSmall, src.PersonsSmall},
		{p.PersonsLarge, src.PersonsLarge},
		{p.ContactsSmall, src.ContactsSmall},
		{p.ContactsLarge, src.ContactsLarge},
	}
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), dirPermission); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteDataset, f.path, err)
		}
		if err := dataset.WriteFile(f.path, f.records); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWriteDataset, f.path, err)
		}
		logger.Get().Debug(ctx, "dataset file written", logger.String("path", f.path))
	}
	return nil
}

func generatePersons(rng *rand.Rand, n int) []model.PersonRecord {
	out := make([]model.PersonRecord, n)
	for i := range out {
		id := i + 1
		out[i] = model.PersonRecord{ID: id, Name: generateName(rng, id), Age: minAge + rng.IntN(ageSpan)}
	}
	return out
}

// generateName mixes in single-token and digit-only names so the
// no-last-name and no-letter paths are exercised.
func generateName(rng *rand.Rand, id int) string {
	switch {
	case id%digitNameEvery == 0:
		return strconv.Itoa(rng.IntN(digitNameMax))
	case id%singleNameEvery == 0:
		return firstNames[rng.IntN(len(firstNames))]
	default:
		return firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))]
	}
}

// pickSmall keeps a share of persons whose surname belongs to the small
// surname set, so some large surnames never appear in the small table.
func pickSmall(rng *rand.Rand, large []model.PersonRecord, share float64) []model.PersonRecord {
	known := make(map[string]struct{}, len(lastNames)/smallSurnameShare)
	for i := 0; i < len(lastNames); i += smallSurnameShare {
		known[lastNames[i]] = struct{}{}
	}
	var out []model.PersonRecord
	for _, p := range large {
		norm := person.FromRecord(p)
		if !norm.HasLastName {
			continue
		}
		if _, hit := known[norm.LastName]; hit && rng.Float64() < share {
			out = append(out, p)
		}
	}
	return out
}

func generateContact(rng *rand.Rand, cfg Config, persons []model.PersonRecord) (model.ContactRecord, bool) {
	start := cfg.Start.Add(time.Duration(rng.Int64N(int64(contactWindow/time.Second))) * time.Second)
	short := rng.Float64() < cfg.ShortRate
	var length time.Duration
	if short {
		length = time.Duration(rng.Int64N(int64(contact.MinDuration/time.Second))) * time.Second
	} else {
		span := int64((maxContactLength - contact.MinDuration) / time.Minute)
		length = contact.MinDuration + time.Duration(rng.Int64N(span+1)*secondsPerMinute)*time.Second
	}
	return model.ContactRecord{
		Member1ID: persons[rng.IntN(len(persons))].ID,
		Member2ID: persons[rng.IntN(len(persons))].ID,
		From:      start.Format(timestampLayout),
		To:        start.Add(length).Format(timestampLayout),
	}, short
}

func seedFromUUID(id uuid.UUID) uint64 {
	return binary.LittleEndian.Uint64(id[:8])
}
