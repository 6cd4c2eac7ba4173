package validation

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"golang.org/x/text/language"

	"formbind/binder"
	"formbind/naming"
)

// DefaultGroup is the group of constraints on fields without a groups tag.
const DefaultGroup = "Default"

// TagGroups lists the validation groups a field belongs to, comma separated.
const TagGroups = "groups"

// Validator checks a bound object and reports into a result.
//
// Validate returns seed extended with the violations found on obj. Paths of
// the reported fields are full field paths below prefix. With groups, only
// the fields belonging to one of the groups are checked.
type Validator interface {
	Validate(obj any, prefix string, seed *Result, locale language.Tag, groups ...string) *Result
}

// SelfValidator is implemented by objects carrying cross-field checks.
// A returned error becomes a global message.
type SelfValidator interface {
	Validate() error
}

// PlaygroundValidator checks `validate` struct tags.
type PlaygroundValidator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	fallback ut.Translator
}

// NewPlaygroundValidator returns a validator with English messages.
func NewPlaygroundValidator() (*PlaygroundValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(binder.FieldPropertyName)

	english := en.New()
	uni := ut.New(english, english)

	trans, _ := uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	return &PlaygroundValidator{validate: v, uni: uni, fallback: trans}, nil
}

// Engine exposes the underlying validator for registering custom constraints.
func (p *PlaygroundValidator) Engine() *validator.Validate {
	return p.validate
}

func (p *PlaygroundValidator) Validate(obj any, prefix string, seed *Result, locale language.Tag, groups ...string) *Result {
	b := NewBuilder().Merge(seed)

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return b.Build()
		}
		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return b.Build()
	}

	var err error
	if len(groups) > 0 {
		err = p.validate.StructExcept(obj, excluded(rv.Type(), groups)...)
	} else {
		err = p.validate.Struct(obj)
	}

	trans := p.translator(locale)

	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			b.AddField(fieldPath(prefix, fe.Namespace()), Message{
				Key:  KeyConstraintBase + fe.Tag(),
				Text: fe.Translate(trans),
			})
		}
	case err != nil:
		b.AddGlobal(ObjectMessage(err))
	}

	if sv, ok := obj.(SelfValidator); ok {
		if err := sv.Validate(); err != nil {
			b.AddGlobal(ObjectMessage(err))
		}
	}

	return b.Build()
}

func (p *PlaygroundValidator) translator(locale language.Tag) ut.Translator {
	base, _ := locale.Base()
	if trans, found := p.uni.GetTranslator(base.String()); found {
		return trans
	}

	return p.fallback
}

// fieldPath turns a validator namespace such as "Person.addresses[0].street"
// into the field path "prefix-addresses[0]-street".
func fieldPath(prefix, namespace string) string {
	_, rel, ok := strings.Cut(namespace, ".")
	if !ok {
		rel = namespace
	}

	return naming.Join(prefix, strings.ReplaceAll(rel, ".", naming.Separator))
}

// excluded returns the Go names of top level fields belonging to none of groups.
func excluded(rtype reflect.Type, groups []string) []string {
	var out []string

	for i := range rtype.NumField() {
		sf := rtype.Field(i)
		if !sf.IsExported() {
			continue
		}

		member := []string{DefaultGroup}
		if tag, ok := sf.Tag.Lookup(TagGroups); ok {
			member = strings.Split(tag, ",")
		}

		if !slices.ContainsFunc(member, func(g string) bool {
			return slices.Contains(groups, strings.TrimSpace(g))
		}) {
			out = append(out, sf.Name)
		}
	}

	return out
}
