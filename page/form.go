package page

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrControlNotFound is returned when a named form control does not exist.
var ErrControlNotFound = errors.New("form control not found")

// ErrSubmitChosen is returned when a submit control is chosen twice.
var ErrSubmitChosen = errors.New("submit control already chosen")

// controlSelector matches every element kind that can belong to a form.
const controlSelector = "input, button, fieldset, object, output, select, textarea"

// ownerTags are the element kinds that may declare a form owner via a
// form attribute.
var ownerTags = []string{"input", "button", "fieldset", "object", "output", "select", "textarea"}

// Form wraps a form element together with its controls, including detached
// controls associated through the HTML form-owner attribute. A Form is owned
// by the page it was built from and is stale once the page is replaced.
type Form struct {
	doc      *Document
	sel      *goquery.Selection
	controls []*goquery.Selection

	chosenSubmit *goquery.Selection
	submitChosen bool
	omitSubmit   bool
}

// NewForm builds a Form from a form element on this document. If the form
// has an id, controls elsewhere on the page whose form attribute names that
// id become virtual members, appended after the descendants.
func (d *Document) NewForm(sel *goquery.Selection) *Form {
	f := &Form{doc: d, sel: sel}

	sel.Find(controlSelector).Each(func(i int, s *goquery.Selection) {
		f.controls = append(f.controls, s)
	})

	if id, ok := sel.Attr("id"); ok && id != "" {
		f.controls = append(f.controls, d.ownedControls(id, sel)...)
	}
	return f
}

// ownedControls finds controls outside the form that declare it as their
// owner, grouped by element kind.
func (d *Document) ownedControls(id string, form *goquery.Selection) []*goquery.Selection {
	formNode := form.Get(0)

	var owned []*goquery.Selection
	for _, tag := range ownerTags {
		d.doc.Find(fmt.Sprintf("%s[form=%q]", tag, id)).Each(func(i int, s *goquery.Selection) {
			// Descendants are already members
			if closest := s.Closest("form"); closest.Length() > 0 && closest.Get(0) == formNode {
				return
			}
			owned = append(owned, s)
		})
	}
	return owned
}

// Selection exposes the underlying form element.
func (f *Form) Selection() *goquery.Selection {
	return f.sel
}

// Controls returns every control bound to the form, descendants first, then
// owner-attribute members.
func (f *Form) Controls() []*goquery.Selection {
	return f.controls
}

// Method returns the form's HTTP method, uppercased, defaulting to GET.
func (f *Form) Method() string {
	return strings.ToUpper(f.sel.AttrOr("method", "GET"))
}

// Action returns the form's action attribute, which may be relative or empty.
func (f *Form) Action() string {
	return f.sel.AttrOr("action", "")
}

// Enctype returns the declared encoding, defaulting to urlencoded.
func (f *Form) Enctype() string {
	return f.sel.AttrOr("enctype", "application/x-www-form-urlencoded")
}

// IsMultipart reports whether the form submits as multipart/form-data.
func (f *Form) IsMultipart() bool {
	return strings.Contains(strings.ToLower(f.Enctype()), "multipart/form-data")
}

// find returns controls of the given tags carrying the given name.
func (f *Form) find(name string, tags ...string) []*goquery.Selection {
	var out []*goquery.Selection
	for _, s := range f.controls {
		if s.AttrOr("name", "") != name {
			continue
		}
		if len(tags) == 0 {
			out = append(out, s)
			continue
		}
		for _, tag := range tags {
			if s.Is(tag) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Input fills a text-like input or textarea.
func (f *Form) Input(name, value string) error {
	for _, s := range f.find(name, "input", "textarea") {
		if s.Is("textarea") {
			s.SetText(value)
		} else {
			s.SetAttr("value", value)
		}
		return nil
	}
	return fmt.Errorf("%w: input %q", ErrControlNotFound, name)
}

// SetTextarea fills a textarea.
func (f *Form) SetTextarea(name, value string) error {
	for _, s := range f.find(name, "textarea") {
		s.SetText(value)
		return nil
	}
	return fmt.Errorf("%w: textarea %q", ErrControlNotFound, name)
}

// Check marks the checkbox with the given name and value as checked.
func (f *Form) Check(name, value string) error {
	return f.setChecked(name, value, "checkbox", true)
}

// Uncheck clears the checkbox with the given name and value.
func (f *Form) Uncheck(name, value string) error {
	return f.setChecked(name, value, "checkbox", false)
}

// SetRadio selects one value within a radio group, clearing the rest.
func (f *Form) SetRadio(name, value string) error {
	group := f.typed(name, "radio")
	if len(group) == 0 {
		return fmt.Errorf("%w: radio %q", ErrControlNotFound, name)
	}
	found := false
	for _, s := range group {
		if s.AttrOr("value", "on") == value {
			s.SetAttr("checked", "checked")
			found = true
		} else {
			s.RemoveAttr("checked")
		}
	}
	if !found {
		return fmt.Errorf("%w: radio %q value %q", ErrControlNotFound, name, value)
	}
	return nil
}

func (f *Form) setChecked(name, value, inputType string, checked bool) error {
	for _, s := range f.typed(name, inputType) {
		if s.AttrOr("value", "on") != value {
			continue
		}
		if checked {
			s.SetAttr("checked", "checked")
		} else {
			s.RemoveAttr("checked")
		}
		return nil
	}
	return fmt.Errorf("%w: %s %q value %q", ErrControlNotFound, inputType, name, value)
}

// typed returns input controls of one type attribute carrying the name.
func (f *Form) typed(name, inputType string) []*goquery.Selection {
	var out []*goquery.Selection
	for _, s := range f.find(name, "input") {
		if strings.EqualFold(s.AttrOr("type", "text"), inputType) {
			out = append(out, s)
		}
	}
	return out
}

// SetSelect selects options of a select control by option value, falling
// back to visible option text. Multiple values require a multiple select.
func (f *Form) SetSelect(name string, values ...string) error {
	sels := f.find(name, "select")
	if len(sels) == 0 {
		return fmt.Errorf("%w: select %q", ErrControlNotFound, name)
	}
	sel := sels[0]

	_, multiple := sel.Attr("multiple")
	if !multiple && len(values) > 1 {
		return fmt.Errorf("select %q does not allow multiple values", name)
	}

	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}

	matched := 0
	sel.Find("option").Each(func(i int, opt *goquery.Selection) {
		value := opt.AttrOr("value", strings.TrimSpace(opt.Text()))
		if want[value] || want[strings.TrimSpace(opt.Text())] {
			opt.SetAttr("selected", "selected")
			matched++
		} else {
			opt.RemoveAttr("selected")
		}
	})
	if matched < len(values) {
		return fmt.Errorf("%w: select %q values %v", ErrControlNotFound, name, values)
	}
	return nil
}

// Set fills any control by name, dispatching on its kind.
func (f *Form) Set(name, value string) error {
	for _, s := range f.find(name) {
		switch {
		case s.Is("textarea"):
			s.SetText(value)
			return nil
		case s.Is("select"):
			return f.SetSelect(name, value)
		case s.Is("input"):
			switch strings.ToLower(s.AttrOr("type", "text")) {
			case "checkbox":
				return f.Check(name, value)
			case "radio":
				return f.SetRadio(name, value)
			default:
				s.SetAttr("value", value)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q", ErrControlNotFound, name)
}

// NewControl appends a new input control to the form and returns it.
// Useful for fields injected by script on real pages.
func (f *Form) NewControl(inputType, name, value string) *goquery.Selection {
	markup := fmt.Sprintf(`<input type="%s" name="%s" value="%s"/>`,
		html.EscapeString(inputType), html.EscapeString(name), html.EscapeString(value))
	f.sel.AppendHtml(markup)

	ctl := f.sel.Find("input").Last()
	f.controls = append(f.controls, ctl)
	return ctl
}

// SubmitControls returns the valid submit elements in document order:
// input[type=submit], input[type=image], and buttons that are not of type
// button or reset.
func (f *Form) SubmitControls() []*goquery.Selection {
	var out []*goquery.Selection
	for _, s := range f.controls {
		if isSubmit(s) {
			out = append(out, s)
		}
	}
	return out
}

func isSubmit(s *goquery.Selection) bool {
	if s.Is("input") {
		t := strings.ToLower(s.AttrOr("type", "text"))
		return t == "submit" || t == "image"
	}
	if s.Is("button") {
		t := strings.ToLower(s.AttrOr("type", "submit"))
		return t != "button" && t != "reset"
	}
	return false
}

// ChooseSubmit chooses the submit control used for submission. An empty
// name picks the first valid submit element in document order, if any.
// Choosing twice is an error.
func (f *Form) ChooseSubmit(name string) error {
	if f.submitChosen {
		return ErrSubmitChosen
	}

	submits := f.SubmitControls()
	if name == "" {
		if len(submits) > 0 {
			f.chosenSubmit = submits[0]
		}
		f.submitChosen = true
		return nil
	}

	for _, s := range submits {
		if s.AttrOr("name", "") == name {
			f.chosenSubmit = s
			f.submitChosen = true
			return nil
		}
	}
	return fmt.Errorf("%w: submit %q", ErrControlNotFound, name)
}

// ChooseNoSubmit submits the form without any submit control, as an
// AJAX-style submission would.
func (f *Form) ChooseNoSubmit() error {
	if f.submitChosen {
		return ErrSubmitChosen
	}
	f.submitChosen = true
	f.omitSubmit = true
	return nil
}

// FilePart is a file input scheduled for multipart upload. Path is read
// from disk at submission time.
type FilePart struct {
	Field string
	Path  string
}

// Payload is the serialized form content.
type Payload struct {
	Values url.Values
	Files  []FilePart
}

// BuildPayload serializes the form per HTML submission rules: disabled and
// nameless controls are skipped, unchecked boxes are omitted, selects
// contribute their selected options, and only the chosen submit control is
// included.
func (f *Form) BuildPayload() (*Payload, error) {
	p := &Payload{Values: url.Values{}}

	for _, s := range f.controls {
		if _, disabled := s.Attr("disabled"); disabled {
			continue
		}
		name := s.AttrOr("name", "")
		if name == "" {
			continue
		}

		switch {
		case s.Is("input"):
			if err := f.addInput(p, s, name); err != nil {
				return nil, err
			}
		case s.Is("textarea"):
			p.Values.Add(name, s.Text())
		case s.Is("select"):
			addSelect(p, s, name)
		case s.Is("button"):
			if isSubmit(s) && s == f.chosenSubmit {
				p.Values.Add(name, s.AttrOr("value", ""))
			}
		}
	}
	return p, nil
}

func (f *Form) addInput(p *Payload, s *goquery.Selection, name string) error {
	switch strings.ToLower(s.AttrOr("type", "text")) {
	case "checkbox", "radio":
		if _, checked := s.Attr("checked"); checked {
			p.Values.Add(name, s.AttrOr("value", "on"))
		}
	case "submit", "image":
		if s == f.chosenSubmit {
			p.Values.Add(name, s.AttrOr("value", ""))
		}
	case "file":
		path := s.AttrOr("value", "")
		p.Files = append(p.Files, FilePart{Field: name, Path: path})
	case "button", "reset":
		// Never submitted
	default:
		p.Values.Add(name, s.AttrOr("value", ""))
	}
	return nil
}

func addSelect(p *Payload, s *goquery.Selection, name string) {
	_, multiple := s.Attr("multiple")

	var selected []string
	s.Find("option").Each(func(i int, opt *goquery.Selection) {
		if _, ok := opt.Attr("selected"); ok {
			selected = append(selected, optionValue(opt))
		}
	})

	if len(selected) == 0 {
		if multiple {
			return
		}
		// A non-multiple select falls back to its first option
		first := s.Find("option").First()
		if first.Length() > 0 {
			p.Values.Add(name, optionValue(first))
		}
		return
	}
	if !multiple {
		selected = selected[:1]
	}
	for _, v := range selected {
		p.Values.Add(name, v)
	}
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}
