package credstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/umeshlumbhani/wifi-creds/internal/models"
	"gopkg.in/yaml.v3"
)

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Entry is one network as written in the credentials file.
type Entry struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
	Auth     string `yaml:"auth"`
	Cipher   string `yaml:"cipher"`
	Identity string `yaml:"identity"`
}

type document struct {
	Networks []Entry `yaml:"networks"`
}

// Options selects the credential sources for Load.
type Options struct {
	// File is a YAML credentials file. Empty skips it.
	File string
	// Optional makes a missing File not an error.
	Optional bool
	// EnvPrefix enables <EnvPrefix>_<n>_* variables. Empty skips them.
	EnvPrefix string
	// Lookup defaults to os.LookupEnv.
	Lookup LookupFunc
}

// Store builds credential tables from configuration.
type Store struct {
	Log *logrus.Logger
}

// NewStore returns access to this module
func NewStore(l *logrus.Logger) *Store {
	return &Store{Log: l}
}

// Load reads the file entries, appends the environment entries, validates
// every record and returns them as a Table in that order.
func (s *Store) Load(opts Options) (models.Table, error) {
	var entries []Entry
	if opts.File != "" {
		fileEntries, err := LoadFile(opts.File)
		switch {
		case err == nil:
			entries = append(entries, fileEntries...)
			s.Log.Debug(fmt.Sprintf("read %d credentials from %s", len(fileEntries), opts.File))
		case opts.Optional && errors.Is(err, fs.ErrNotExist):
			s.Log.Debug(fmt.Sprintf("credentials file %s not found, skipping", opts.File))
		default:
			s.Log.Error(err.Error())
			return models.Table{}, err
		}
	}
	if opts.EnvPrefix != "" {
		lookup := opts.Lookup
		if lookup == nil {
			lookup = os.LookupEnv
		}
		envEntries := LoadEnv(opts.EnvPrefix, lookup)
		entries = append(entries, envEntries...)
		s.Log.Debug(fmt.Sprintf("read %d credentials from %s_* variables", len(envEntries), opts.EnvPrefix))
	}

	t, err := Build(entries)
	if err != nil {
		s.Log.Error(fmt.Sprintf("found error on building credential table: %s", err.Error()))
		return models.Table{}, err
	}
	s.Log.Info(fmt.Sprintf("loaded %d stored networks", t.Len()))
	return t, nil
}

// LoadFile parses a YAML credentials file.
func LoadFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("found error on reading credentials file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML credentials document. Unknown keys are rejected so
// typos do not silently drop a password.
func Parse(b []byte) ([]Entry, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("found error on decoding credentials: %w", err)
	}
	return doc.Networks, nil
}

// LoadEnv reads <prefix>_1_SSID, <prefix>_1_PASSWORD, <prefix>_1_AUTH,
// <prefix>_1_CIPHER and <prefix>_1_IDENTITY, then _2_, and so on. The first
// index without an SSID ends the list.
func LoadEnv(prefix string, lookup LookupFunc) []Entry {
	var entries []Entry
	for n := 1; n <= models.MaxStoredNetworks+1; n++ {
		key := func(field string) string {
			v, _ := lookup(fmt.Sprintf("%s_%d_%s", prefix, n, field))
			return v
		}
		ssid, ok := lookup(fmt.Sprintf("%s_%d_SSID", prefix, n))
		if !ok {
			break
		}
		entries = append(entries, Entry{
			SSID:     ssid,
			Password: key("PASSWORD"),
			Auth:     key("AUTH"),
			Cipher:   key("CIPHER"),
			Identity: key("IDENTITY"),
		})
	}
	return entries
}

// Build converts and validates entries and returns them as a Table. An
// entry without an auth type is taken as WPA2 when it has a password and
// open otherwise. WPA and enterprise entries without a cipher get AES.
// An SSID may appear only once, since every network maps to one profile.
func Build(entries []Entry) (models.Table, error) {
	creds := make([]models.Credential, 0, len(entries))
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		c, err := e.credential()
		if err != nil {
			return models.Table{}, fmt.Errorf("network %d (%q): %w", i+1, e.SSID, err)
		}
		if err = c.Validate(); err != nil {
			return models.Table{}, fmt.Errorf("network %d: %w", i+1, err)
		}
		if first, ok := seen[c.SSID]; ok {
			return models.Table{}, fmt.Errorf("network %d: %w: ssid %q already used by network %d", i+1, models.ErrInvalidCredential, c.SSID, first)
		}
		seen[c.SSID] = i + 1
		creds = append(creds, c)
	}
	return models.NewTable(creds...)
}

func (e Entry) credential() (c models.Credential, err error) {
	c = models.Credential{
		SSID:     e.SSID,
		Password: e.Password,
		Identity: e.Identity,
	}
	switch {
	case e.Auth != "":
		c.AuthType, err = models.ParseAuthType(e.Auth)
		if err != nil {
			return c, fmt.Errorf("%w: %s", models.ErrInvalidCredential, err.Error())
		}
	case e.Password != "":
		c.AuthType = models.AuthWPA2
	default:
		c.AuthType = models.AuthOpen
	}
	c.Cipher, err = models.ParseCipher(e.Cipher)
	if err != nil {
		return c, fmt.Errorf("%w: %s", models.ErrInvalidCredential, err.Error())
	}
	if e.Cipher == "" && c.AuthType != models.AuthOpen && c.AuthType != models.AuthWEP {
		c.Cipher = models.CipherAES
	}
	return c, nil
}
