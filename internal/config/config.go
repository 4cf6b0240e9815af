// Package config resolves the deletion criteria for one purge run from
// environment-style configuration keys.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/scaleway/scaleway-sdk-go/scw"
	"github.com/spf13/viper"
)

// AgeThreshold is the fixed age beyond which a tag qualifies as old.
const AgeThreshold = 90 * 24 * time.Hour

// Recognized configuration keys.
const (
	KeyDeleteOldTags         = "DELETE_OLD_TAGS"
	KeyTagNamePattern        = "TAG_NAME_PATTERN"
	KeyDeleteUnusedNamespace = "DELETE_UNUSED_NAMESPACE"
	KeyNamespaceID           = "NAMESPACE_ID"
	KeyImageID               = "IMAGE_ID"
	KeyDryRun                = "DRY_RUN"
	KeyRegion                = "REGION"
	KeyAccessKey             = "SCW_ACCESS_KEY"
	KeySecretKey             = "SCW_SECRET_KEY"
)

// ConfigurationError reports an invalid or missing configuration value.
// It is fatal: nothing is deleted when resolution fails.
type ConfigurationError struct {
	Key    string
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration %s: %s: %v", e.Key, e.Detail, e.Err)
	}
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Detail)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Criteria is the immutable rule set for one run. The name pattern is
// compiled once here; an unset pattern disables name-based deletion.
// If TargetImageID is set, TargetNamespaceID is ignored for scoping.
type Criteria struct {
	DeleteOldTags          bool
	NamePattern            *regexp.Regexp
	NamePatternSource      string
	DeleteUnusedNamespaces bool
	TargetNamespaceID      string
	TargetImageID          string
	DryRun                 bool
}

// Credentials carries the values the engine never inspects itself; they
// are handed to the registry client as-is.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    scw.Region
}

// Config is the resolved input of one invocation.
type Config struct {
	Criteria    Criteria
	Credentials Credentials
}

// FromEnv resolves configuration from the process environment.
func FromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return Resolve(v)
}

// FromMap resolves configuration from an explicit key/value mapping, with
// the process environment as fallback for keys absent from the map. Used
// by the HTTP entrypoint, where each invocation may carry its own options.
func FromMap(options map[string]string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range options {
		v.Set(key, value)
	}
	return Resolve(v)
}

// Resolve builds the immutable Config from a prepared viper instance.
func Resolve(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyDeleteOldTags, true)
	v.SetDefault(KeyDeleteUnusedNamespace, false)
	v.SetDefault(KeyDryRun, false)

	cfg := &Config{
		Criteria: Criteria{
			DeleteOldTags:          v.GetBool(KeyDeleteOldTags),
			DeleteUnusedNamespaces: v.GetBool(KeyDeleteUnusedNamespace),
			TargetNamespaceID:      v.GetString(KeyNamespaceID),
			TargetImageID:          v.GetString(KeyImageID),
			DryRun:                 v.GetBool(KeyDryRun),
		},
		Credentials: Credentials{
			AccessKey: v.GetString(KeyAccessKey),
			SecretKey: v.GetString(KeySecretKey),
		},
	}

	if pattern := v.GetString(KeyTagNamePattern); pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &ConfigurationError{
				Key:    KeyTagNamePattern,
				Detail: fmt.Sprintf("pattern %q is not a valid regular expression", pattern),
				Err:    err,
			}
		}
		cfg.Criteria.NamePattern = compiled
		cfg.Criteria.NamePatternSource = pattern
	}

	regionRaw := v.GetString(KeyRegion)
	if regionRaw == "" {
		return nil, &ConfigurationError{Key: KeyRegion, Detail: "region is required"}
	}
	region, err := scw.ParseRegion(regionRaw)
	if err != nil {
		return nil, &ConfigurationError{
			Key:    KeyRegion,
			Detail: fmt.Sprintf("%q is not a valid region", regionRaw),
			Err:    err,
		}
	}
	cfg.Credentials.Region = region

	return cfg, nil
}
