package models

// SpecType classifies a test example by the layer it exercises.
type SpecType string

const (
	SpecTypeModel       SpecType = "model"
	SpecTypeController  SpecType = "controller"
	SpecTypeRequest     SpecType = "request"
	SpecTypeFeature     SpecType = "feature"
	SpecTypeIntegration SpecType = "integration"
	SpecTypeSystem      SpecType = "system"
	SpecTypeLib         SpecType = "lib"
	SpecTypeHelper      SpecType = "helper"
	SpecTypeView        SpecType = "view"
	SpecTypeUnknown     SpecType = "unknown"
)

// FactoryStrategy is the fixture-construction mode for a test object.
type FactoryStrategy string

const (
	StrategyCreate       FactoryStrategy = "create"
	StrategyBuild        FactoryStrategy = "build"
	StrategyBuildStubbed FactoryStrategy = "build_stubbed"
	StrategyUnknown      FactoryStrategy = "unknown"
)

// FactoryStats records usage of one factory within a single example.
type FactoryStats struct {
	Strategy FactoryStrategy `json:"strategy"`
	Count    int             `json:"count"`
	Time     float64         `json:"time"`
}

// DBStats holds database query counters for one example. TotalQueries need
// not equal the sum of the per-kind counters; some drivers double-count.
type DBStats struct {
	TotalQueries int `json:"total_queries"`
	Inserts      int `json:"inserts"`
	Selects      int `json:"selects"`
	Updates      int `json:"updates"`
	Deletes      int `json:"deletes"`
}

// EventExample is one captured occurrence of an instrumented event.
type EventExample struct {
	SQL       string  `json:"sql,omitempty"`
	Time      float64 `json:"time,omitempty"`
	Location  string  `json:"location,omitempty"`
	Backtrace string  `json:"backtrace,omitempty"`
}

// EventStats aggregates occurrences of one instrumented event name.
type EventStats struct {
	Count    int            `json:"count"`
	Time     float64        `json:"time"`
	Examples []EventExample `json:"examples,omitempty"`
}

// ProfileRecord is the normalized performance snapshot of one test example.
// It is created by the external normalizer, analyzed once, and discarded.
type ProfileRecord struct {
	Location  string                  `json:"location"`
	SpecType  SpecType                `json:"spec_type"`
	RuntimeMS float64                 `json:"runtime_ms"`
	Factories map[string]FactoryStats `json:"factories,omitempty"`
	DB        DBStats                 `json:"db"`
	Events    map[string]EventStats   `json:"events,omitempty"`
	Metadata  map[string]string       `json:"metadata,omitempty"`
}

// CreateCount returns the total number of objects persisted through
// factories using the create strategy.
func (p *ProfileRecord) CreateCount() int {
	total := 0
	for _, f := range p.Factories {
		if f.Strategy == StrategyCreate {
			total += f.Count
		}
	}
	return total
}

// DominantFactory returns the name and stats of the factory with the highest
// usage count among those using the given strategy. The second return value
// is false when no factory uses that strategy.
func (p *ProfileRecord) DominantFactory(strategy FactoryStrategy) (string, FactoryStats, bool) {
	var (
		bestName  string
		bestStats FactoryStats
		found     bool
	)
	for name, f := range p.Factories {
		if f.Strategy != strategy || f.Count <= 0 {
			continue
		}
		// Name is the tiebreaker so iteration order never changes the result.
		if !found || f.Count > bestStats.Count || (f.Count == bestStats.Count && name < bestName) {
			bestName, bestStats, found = name, f, true
		}
	}
	return bestName, bestStats, found
}
