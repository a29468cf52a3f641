// Package config loads clientline settings from built-in defaults, an
// optional YAML file and CLIENTLINE_* environment variables, in that order
// of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/nconklindev/clientline/internal/client"
)

// Config holds all application configuration.
type Config struct {
	Mapping MappingConfig `yaml:"mapping"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// MappingConfig holds the field-mapping choices that vary between the
// spreadsheet layouts clients send.
type MappingConfig struct {
	// OrganisationSpellings are entityType values treated as organisations.
	OrganisationSpellings []string `yaml:"organisationSpellings" env:"CLIENTLINE_ORGANISATION_SPELLINGS" default:"ORGANISATION,ORGANIZATION"`

	// AssessmentTokens are the affirmative spellings of assessmentRequired.
	AssessmentTokens []string `yaml:"assessmentTokens" env:"CLIENTLINE_ASSESSMENT_TOKENS" default:"true,1,1.0,t,yes,y"`

	// SecurityTokens are the affirmative spellings of Security Enabled.
	SecurityTokens []string `yaml:"securityTokens" env:"CLIENTLINE_SECURITY_TOKENS" default:"true,1,1.0,t,yes,y"`

	// SocialSecurityColumns are tried in order for the ssn identity number.
	SocialSecurityColumns []string `yaml:"socialSecurityColumns" env:"CLIENTLINE_SOCIAL_SECURITY_COLUMNS" default:"Social Security No.,National Security No."`

	// AliasColumns must name exactly four columns, mapped to AKA1..AKA4.
	AliasColumns []string `yaml:"aliasColumns" env:"CLIENTLINE_ALIAS_COLUMNS" default:"Alias 1,Alias 2,Alias 3,Alias 4"`

	// TagColumns must name exactly three columns, mapped to orTags1..orTags3.
	TagColumns []string `yaml:"tagColumns" env:"CLIENTLINE_TAG_COLUMNS" default:"Tag 1,Tag 2,Tag 3"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	// Workers is the number of goroutines building records (default: 1)
	Workers int `yaml:"workers" env:"CLIENTLINE_WORKERS" default:"1"`

	// Sheet is the XLSX sheet to read; empty means the first sheet.
	Sheet string `yaml:"sheet" env:"CLIENTLINE_SHEET"`

	// OutputExt replaces the input file's extension (default: .jsonl)
	OutputExt string `yaml:"outputExt" env:"CLIENTLINE_OUTPUT_EXT" default:".jsonl"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"CLIENTLINE_LOG_LEVEL" default:"info"`

	// Mode is development (console) or production (JSON) (default: development)
	Mode string `yaml:"mode" env:"CLIENTLINE_LOG_MODE" default:"development"`

	// File receives log output. Empty means stderr for the convert command
	// and no logging at all for the interactive UI.
	File string `yaml:"file" env:"CLIENTLINE_LOG_FILE"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Convert.Workers < 1 {
		errs = append(errs, "convert.workers must be at least 1")
	}
	if !strings.HasPrefix(c.Convert.OutputExt, ".") {
		errs = append(errs, fmt.Sprintf("convert.outputExt %q must start with a dot", c.Convert.OutputExt))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if len(nonEmpty(c.Mapping.OrganisationSpellings)) == 0 {
		errs = append(errs, "mapping.organisationSpellings must not be empty")
	}
	if len(nonEmpty(c.Mapping.AssessmentTokens)) == 0 {
		errs = append(errs, "mapping.assessmentTokens must not be empty")
	}
	if len(nonEmpty(c.Mapping.SecurityTokens)) == 0 {
		errs = append(errs, "mapping.securityTokens must not be empty")
	}
	if len(nonEmpty(c.Mapping.SocialSecurityColumns)) == 0 {
		errs = append(errs, "mapping.socialSecurityColumns must not be empty")
	}
	if len(c.Mapping.AliasColumns) != 4 {
		errs = append(errs, fmt.Sprintf("mapping.aliasColumns needs 4 entries, got %d", len(c.Mapping.AliasColumns)))
	}
	if len(c.Mapping.TagColumns) != 3 {
		errs = append(errs, fmt.Sprintf("mapping.tagColumns needs 3 entries, got %d", len(c.Mapping.TagColumns)))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Rules converts the mapping settings into builder rules. Call Validate
// first; short column lists leave the missing slots empty.
func (m MappingConfig) Rules() client.Rules {
	r := client.Rules{
		OrganisationSpellings: client.NewTokenSet(m.OrganisationSpellings...),
		AssessmentTokens:      client.NewTokenSet(m.AssessmentTokens...),
		SecurityTokens:        client.NewTokenSet(m.SecurityTokens...),
		SocialSecurityColumns: nonEmpty(m.SocialSecurityColumns),
	}
	copy(r.AliasColumns[:], trimAll(m.AliasColumns))
	copy(r.TagColumns[:], trimAll(m.TagColumns))
	return r
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range trimAll(ss) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
