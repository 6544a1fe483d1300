package config

// Quickfile represents the structure of the quick.yaml configuration file.
type Quickfile struct {
	Version     string `yaml:"version"`
	CacheDir    string `yaml:"cacheDir"`
	Cargo       string `yaml:"cargo"`
	Jobs        *int   `yaml:"jobs"`
	Timeout     string `yaml:"timeout"`
	Offline     *bool  `yaml:"offline"`
	Parallelism *int   `yaml:"parallelism"`
	ScratchRoot string `yaml:"scratchRoot"`
	Compression string `yaml:"compression"`
	JSONLogs    *bool  `yaml:"jsonLogs"`
}

// Graphfile represents a resolved package graph written as YAML.
type Graphfile struct {
	Version  string       `yaml:"version"`
	Root     string       `yaml:"root"`
	Packages []PackageDTO `yaml:"packages"`
}

// PackageDTO represents one package of a Graphfile.
type PackageDTO struct {
	ID        string          `yaml:"id"`
	Source    string          `yaml:"source"`
	Features  []string        `yaml:"features"`
	ProcMacro bool            `yaml:"procMacro"`
	Deps      []DependencyDTO `yaml:"deps"`
}

// DependencyDTO represents an outgoing edge of a PackageDTO.
type DependencyDTO struct {
	ID   string `yaml:"id"`
	Kind string `yaml:"kind"`
}
