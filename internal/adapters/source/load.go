package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/adapters/repository"
	"github.com/ykato27/SDP-Analysis-Dashboard/pkg/metrics"
)

// LoadFiles reads the skill file and, when productionPath is set, the
// production file into a Dataset.
func LoadFiles(ctx context.Context, skillsPath, productionPath string, opts ...Option) (repository.Dataset, error) {
	start := time.Now()
	var ds repository.Dataset

	f, err := os.Open(skillsPath)
	if err != nil {
		return ds, err
	}
	defer f.Close()
	if ds.Skills, err = ReadSkills(f, opts...); err != nil {
		return ds, fmt.Errorf("%s: %w", skillsPath, err)
	}
	if err := ctx.Err(); err != nil {
		return ds, err
	}

	if productionPath != "" {
		pf, err := os.Open(productionPath)
		if err != nil {
			return ds, err
		}
		defer pf.Close()
		if ds.Production, err = ReadProduction(pf, opts...); err != nil {
			return ds, fmt.Errorf("%s: %w", productionPath, err)
		}
	}

	metrics.RecordDatasetLoadDuration("csv", float64(time.Since(start).Milliseconds()))
	return ds, nil
}

// WriteFiles writes ds to the two paths, creating or truncating them.
func WriteFiles(ds repository.Dataset, skillsPath, productionPath string, skills, categories []string) error {
	sf, err := os.Create(skillsPath)
	if err != nil {
		return err
	}
	if err := WriteSkills(sf, ds.Skills, skills); err != nil {
		sf.Close()
		return err
	}
	if err := sf.Close(); err != nil {
		return err
	}
	if productionPath == "" {
		return nil
	}
	pf, err := os.Create(productionPath)
	if err != nil {
		return err
	}
	if err := WriteProduction(pf, ds.Production, categories); err != nil {
		pf.Close()
		return err
	}
	return pf.Close()
}
