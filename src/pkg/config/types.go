package config

import "time"

// Config is the attrdiff configuration file
type Config struct {
	GitHub        GitHubConfig `yaml:"github"`
	Tools         ToolsConfig  `yaml:"tools"`
	SearchPathEnv string       `yaml:"searchPathEnv"`
	Timeout       Duration     `yaml:"timeout"`
}

// GitHubConfig describes where archives and pull requests are looked up
type GitHubConfig struct {
	Host     string `yaml:"host"`
	APIURL   string `yaml:"apiURL"`
	Upstream string `yaml:"upstream"`
	Channels string `yaml:"channels"`
}

// ToolsConfig holds the external fetcher and evaluator invocations
type ToolsConfig struct {
	Fetcher       []string `yaml:"fetcher"`
	Evaluator     []string `yaml:"evaluator"`
	EvaluatorArgs []string `yaml:"evaluatorArgs"`
}

// Duration is a time.Duration read from YAML strings such as "90s"
type Duration struct {
	time.Duration
}
