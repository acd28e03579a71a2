// Package profile loads normalized profile records produced by the
// profiling harness's normalizer.
package profile

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kamilpajak/specprof/pkg/models"
)

// rawRecord mirrors the normalizer's JSON output. Fields the harness could
// not derive arrive absent and default to zero values.
type rawRecord struct {
	Location  string                `json:"location"`
	SpecType  string                `json:"spec_type"`
	RuntimeMS float64               `json:"runtime_ms"`
	Factories map[string]rawFactory `json:"factories"`
	DB        rawDB                 `json:"db"`
	Events    map[string]rawEvent   `json:"events"`
	Metadata  map[string]string     `json:"metadata"`
}

// rawFactory carries the optional strategy indicators the normalizer may or
// may not fill in, depending on the harness version.
type rawFactory struct {
	Strategy          string  `json:"strategy"`
	Count             int     `json:"count"`
	Time              float64 `json:"time"`
	CreateCount       int     `json:"create_count"`
	BuildCount        int     `json:"build_count"`
	BuildStubbedCount int     `json:"build_stubbed_count"`
	Method            string  `json:"method"`
}

type rawDB struct {
	TotalQueries int `json:"total_queries"`
	Inserts      int `json:"inserts"`
	Selects      int `json:"selects"`
	Updates      int `json:"updates"`
	Deletes      int `json:"deletes"`
}

type rawEvent struct {
	Count    int                   `json:"count"`
	Time     float64               `json:"time"`
	Examples []models.EventExample `json:"examples"`
}

// Load reads profile records from a file written by the normalizer. The file
// is either a JSON array of records or newline-delimited JSON, one record per
// line.
func Load(path string) ([]models.ProfileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return Parse(data)
}

// Parse decodes normalizer output from a byte slice.
func Parse(data []byte) ([]models.ProfileRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var raws []rawRecord
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse profile: %w", err)
		}
	} else {
		scanner := bufio.NewScanner(bytes.NewReader(trimmed))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			var raw rawRecord
			if err := json.Unmarshal([]byte(text), &raw); err != nil {
				return nil, fmt.Errorf("failed to parse profile line %d: %w", line, err)
			}
			raws = append(raws, raw)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
	}

	records := make([]models.ProfileRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, normalize(raw))
	}
	return records, nil
}

// normalize converts a raw record to the canonical form, filling defaults
// for anything the harness could not capture.
func normalize(raw rawRecord) models.ProfileRecord {
	rec := models.ProfileRecord{
		Location:  raw.Location,
		SpecType:  models.SpecType(raw.SpecType),
		RuntimeMS: raw.RuntimeMS,
		DB: models.DBStats{
			TotalQueries: max(raw.DB.TotalQueries, 0),
			Inserts:      max(raw.DB.Inserts, 0),
			Selects:      max(raw.DB.Selects, 0),
			Updates:      max(raw.DB.Updates, 0),
			Deletes:      max(raw.DB.Deletes, 0),
		},
		Metadata: raw.Metadata,
	}
	if rec.RuntimeMS < 0 {
		rec.RuntimeMS = 0
	}
	if rec.SpecType == "" || !knownSpecTypes[rec.SpecType] {
		rec.SpecType = InferSpecType(raw.Location)
	}

	if len(raw.Factories) > 0 {
		rec.Factories = make(map[string]models.FactoryStats, len(raw.Factories))
		for name, f := range raw.Factories {
			rec.Factories[name] = models.FactoryStats{
				Strategy: DetectStrategy(f),
				Count:    max(f.Count, 0),
				Time:     f.Time,
			}
		}
	}

	if len(raw.Events) > 0 {
		rec.Events = make(map[string]models.EventStats, len(raw.Events))
		for name, e := range raw.Events {
			rec.Events[name] = models.EventStats{
				Count:    max(e.Count, 0),
				Time:     e.Time,
				Examples: e.Examples,
			}
		}
	}

	return rec
}

// DetectStrategy resolves a factory's construction strategy from the
// normalizer's optional indicators. The fallback precedence is load-bearing:
// explicit strategy field, then create count, build count, build_stubbed
// count, then the recorded method name, then unknown. Reordering it changes
// recommendations silently.
func DetectStrategy(f rawFactory) models.FactoryStrategy {
	switch models.FactoryStrategy(f.Strategy) {
	case models.StrategyCreate, models.StrategyBuild, models.StrategyBuildStubbed:
		return models.FactoryStrategy(f.Strategy)
	}
	if f.CreateCount > 0 {
		return models.StrategyCreate
	}
	if f.BuildCount > 0 {
		return models.StrategyBuild
	}
	if f.BuildStubbedCount > 0 {
		return models.StrategyBuildStubbed
	}
	switch models.FactoryStrategy(f.Method) {
	case models.StrategyCreate, models.StrategyBuild, models.StrategyBuildStubbed:
		return models.FactoryStrategy(f.Method)
	}
	return models.StrategyUnknown
}

var knownSpecTypes = map[models.SpecType]bool{
	models.SpecTypeModel:       true,
	models.SpecTypeController:  true,
	models.SpecTypeRequest:     true,
	models.SpecTypeFeature:     true,
	models.SpecTypeIntegration: true,
	models.SpecTypeSystem:      true,
	models.SpecTypeLib:         true,
	models.SpecTypeHelper:      true,
	models.SpecTypeView:        true,
	models.SpecTypeUnknown:     true,
}

// specDirTypes maps the conventional spec/ subdirectory to a spec type.
var specDirTypes = map[string]models.SpecType{
	"models":      models.SpecTypeModel,
	"controllers": models.SpecTypeController,
	"requests":    models.SpecTypeRequest,
	"api":         models.SpecTypeRequest,
	"features":    models.SpecTypeFeature,
	"integration": models.SpecTypeIntegration,
	"system":      models.SpecTypeSystem,
	"lib":         models.SpecTypeLib,
	"helpers":     models.SpecTypeHelper,
	"views":       models.SpecTypeView,
}

// InferSpecType derives the spec type from a file location such as
// "spec/models/user_spec.rb:42". Unknown layouts map to unknown.
func InferSpecType(location string) models.SpecType {
	if location == "" {
		return models.SpecTypeUnknown
	}
	path := location
	if idx := strings.LastIndex(path, ":"); idx > 0 {
		path = path[:idx]
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part != "spec" && part != "test" {
			continue
		}
		if i+1 < len(parts) {
			if st, ok := specDirTypes[parts[i+1]]; ok {
				return st
			}
		}
	}
	return models.SpecTypeUnknown
}
