package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en"

// Translator resolves a message key to display text.
type Translator func(key string) string

// Identity returns the key itself. Handy where no catalog is loaded.
func Identity(key string) string { return key }

// Language is one selectable UI language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Name     string            `yaml:"name"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the messages of every supported locale.
type Catalog struct {
	languages []Language
	messages  map[string]map[string]string
	tags      []language.Tag
	matcher   language.Matcher
	builder   *catalog.Builder
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS loads every locales/*.yaml file of fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{messages: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := c.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	if err := c.register(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	if locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", p)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: parse locale: %w", p, err)
	}
	msgs := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		msgs[key] = value
	}
	name := file.Name
	if name == "" {
		name = locale
	}
	c.messages[locale] = msgs
	c.languages = append(c.languages, Language{Code: locale, Name: name})
	return nil
}

// register fills every locale with base-locale text for keys it lacks and
// hands the result to x/text so printers can be built per tag.
func (c *Catalog) register() error {
	c.builder = catalog.NewBuilder(catalog.Fallback(language.Make(BaseLocale)))
	base := c.messages[BaseLocale]

	// Base locale first so the matcher prefers it on ties.
	sort.SliceStable(c.languages, func(i, j int) bool {
		if c.languages[i].Code == BaseLocale {
			return true
		}
		if c.languages[j].Code == BaseLocale {
			return false
		}
		return c.languages[i].Code < c.languages[j].Code
	})

	c.tags = c.tags[:0]
	for _, lang := range c.languages {
		tag := language.Make(lang.Code)
		c.tags = append(c.tags, tag)
		msgs := c.messages[lang.Code]
		for key, value := range base {
			if _, ok := msgs[key]; !ok {
				msgs[key] = value
			}
		}
		for key, value := range msgs {
			if err := c.builder.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s/%s: %w", lang.Code, key, err)
			}
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return nil
}

// Languages lists the supported languages, base locale first.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// HasLocale reports whether locale has its own catalog.
func (c *Catalog) HasLocale(locale string) bool {
	_, ok := c.messages[locale]
	return ok
}

// Match picks the best supported locale for the given preferences. Each
// preference may be a tag ("he") or a full Accept-Language header.
func (c *Catalog) Match(preferences ...string) string {
	var wanted []language.Tag
	for _, pref := range preferences {
		pref = strings.TrimSpace(pref)
		if pref == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		wanted = append(wanted, tags...)
	}
	if len(wanted) == 0 {
		return BaseLocale
	}
	_, index, confidence := c.matcher.Match(wanted...)
	if confidence == language.No {
		return BaseLocale
	}
	return c.languages[index].Code
}

// Translator returns the lookup function for locale. Unknown locales use the
// base catalog; unknown keys come back unchanged.
func (c *Catalog) Translator(locale string) Translator {
	if !c.HasLocale(locale) {
		locale = BaseLocale
	}
	printer := message.NewPrinter(language.Make(locale), message.Catalog(c.builder))
	msgs := c.messages[locale]
	return func(key string) string {
		if _, ok := msgs[key]; !ok {
			return key
		}
		return printer.Sprintf(key)
	}
}
