package service

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var embeddedMessages embed.FS

// Bundle holds the messages shipped with the binary, one flat key/pattern
// map per base language.
type Bundle struct {
	messages map[string]map[string]string
	fallback string
}

// NewBundle loads the embedded messages. defaultLocale must be one of them.
func NewBundle(defaultLocale string) (*Bundle, error) {
	return LoadBundle(embeddedMessages, "messages", defaultLocale)
}

// LoadBundle reads every <locale>.yaml file in dir of fsys.
func LoadBundle(fsys fs.FS, dir, defaultLocale string) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read message bundle: %w", err)
	}

	b := &Bundle{messages: make(map[string]map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		var patterns map[string]string
		if err := yaml.Unmarshal(data, &patterns); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		tag, err := language.Parse(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("invalid locale file name %s: %w", entry.Name(), err)
		}
		b.messages[baseOf(tag)] = patterns
	}

	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", defaultLocale, err)
	}
	b.fallback = baseOf(tag)
	if _, ok := b.messages[b.fallback]; !ok {
		return nil, fmt.Errorf("no messages for default locale %q", defaultLocale)
	}

	return b, nil
}

// Locales returns the tags the bundle has messages for, default first.
func (b *Bundle) Locales() []language.Tag {
	others := make([]string, 0, len(b.messages))
	for base := range b.messages {
		if base != b.fallback {
			others = append(others, base)
		}
	}
	sort.Strings(others)

	tags := []language.Tag{language.Make(b.fallback)}
	for _, base := range others {
		tags = append(tags, language.Make(base))
	}
	return tags
}

// Message looks key up for locale, then for the default locale.
func (b *Bundle) Message(_ context.Context, locale language.Tag, key string, args ...any) string {
	if pattern, ok := b.messages[baseOf(locale)][key]; ok {
		return Format(pattern, args...)
	}
	if pattern, ok := b.messages[b.fallback][key]; ok {
		return Format(pattern, args...)
	}
	return key
}

// Format substitutes {0}, {1}, ... in pattern with args.
func Format(pattern string, args ...any) string {
	if len(args) == 0 {
		return pattern
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(pattern)
}

func baseOf(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
