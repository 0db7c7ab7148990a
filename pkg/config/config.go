package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Recognized keys of the [package.metadata.gh-pages] table.
const (
	SignCommit       = "sign-commit"
	PushRemote       = "push-remote"
	DocBranch        = "doc-branch"
	DocCommitMessage = "doc-commit-message"
)

const (
	DefaultManifestPath     = "Cargo.toml"
	DefaultPushRemote       = "origin"
	DefaultDocBranch        = "gh-pages"
	DefaultDocCommitMessage = "(cargo-gh-pages) Generate docs."
)

// TablePath is the location of the metadata table inside the manifest.
var TablePath = []string{"package", "metadata", "gh-pages"}

var recognizedKeys = []string{SignCommit, PushRemote, DocBranch, DocCommitMessage}

// ErrInvalidConfigFormat is returned when the manifest or the metadata table
// cannot be interpreted.
var ErrInvalidConfigFormat = errors.New("invalid cargo file format")

// UnknownKeyError names a key of the metadata table that is not recognized.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("Unknown config key \"%s\" found for [%s]", e.Key, TableName())
}

// TableName returns the dotted table path, e.g. "package.metadata.gh-pages".
func TableName() string {
	return strings.Join(TablePath, ".")
}

// Document is the raw metadata table as decoded from the manifest.
type Document map[string]any

// Settings is the effective configuration of one publish run.
type Settings struct {
	SignCommit       bool   `yaml:"sign-commit"`
	PushRemote       string `yaml:"push-remote"`
	DocBranch        string `yaml:"doc-branch"`
	DocCommitMessage string `yaml:"doc-commit-message"`
	DryRun           bool   `yaml:"dry-run"`
}

// Flags carries command-line values. The *Set fields record whether a value
// was given explicitly, so an empty string can still override the manifest.
type Flags struct {
	DryRun              bool
	Sign                bool
	PushRemote          string
	PushRemoteSet       bool
	DocBranch           string
	DocBranchSet        bool
	DocCommitMessage    string
	DocCommitMessageSet bool
}

// LoadDocument reads the manifest at path and returns its
// [package.metadata.gh-pages] table. A manifest without that table yields an
// empty Document.
func LoadDocument(path string) (Document, error) {
	if path == "" {
		path = DefaultManifestPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return ParseDocument(data)
}

// ParseDocument decodes manifest contents and extracts the metadata table.
func ParseDocument(data []byte) (Document, error) {
	var manifest map[string]any
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfigFormat, err)
	}

	current := manifest
	for _, name := range TablePath {
		value, ok := current[name]
		if !ok {
			return Document{}, nil
		}
		table, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a table", ErrInvalidConfigFormat, name)
		}
		current = table
	}

	return Document(current), nil
}

// Validate rejects documents containing keys outside the recognized set.
// Keys are checked in sorted order so the reported key is deterministic.
func Validate(doc Document) error {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !isRecognized(key) {
			return &UnknownKeyError{Key: key}
		}
	}
	return nil
}

func isRecognized(key string) bool {
	for _, k := range recognizedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (d Document) boolValue(key string) (bool, bool, error) {
	value, ok := d[key]
	if !ok {
		return false, false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidConfigFormat, key)
	}
	return b, true, nil
}

func (d Document) stringValue(key string) (string, bool, error) {
	value, ok := d[key]
	if !ok {
		return "", false, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidConfigFormat, key)
	}
	return s, true, nil
}

// Resolve merges flags, the manifest document and defaults into Settings.
// An explicit flag wins over the document, which wins over the default.
// Signing is enabled when either the flag or the document asks for it.
func Resolve(flags Flags, doc Document) (Settings, error) {
	sign, _, err := doc.boolValue(SignCommit)
	if err != nil {
		return Settings{}, err
	}

	settings := Settings{
		SignCommit: flags.Sign || sign,
		DryRun:     flags.DryRun,
	}

	settings.PushRemote, err = resolveString(flags.PushRemoteSet, flags.PushRemote, doc, PushRemote, DefaultPushRemote)
	if err != nil {
		return Settings{}, err
	}
	settings.DocBranch, err = resolveString(flags.DocBranchSet, flags.DocBranch, doc, DocBranch, DefaultDocBranch)
	if err != nil {
		return Settings{}, err
	}
	settings.DocCommitMessage, err = resolveString(flags.DocCommitMessageSet, flags.DocCommitMessage, doc, DocCommitMessage, DefaultDocCommitMessage)
	if err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func resolveString(set bool, flag string, doc Document, key, def string) (string, error) {
	value, found, err := doc.stringValue(key)
	if err != nil {
		return "", err
	}
	if set {
		return flag, nil
	}
	if found {
		return value, nil
	}
	return def, nil
}

// DefaultSettings returns the settings used when neither flags nor the
// manifest provide a value.
func DefaultSettings() Settings {
	return Settings{
		PushRemote:       DefaultPushRemote,
		DocBranch:        DefaultDocBranch,
		DocCommitMessage: DefaultDocCommitMessage,
	}
}

// YAML renders the settings for display.
func (s Settings) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return data, nil
}
