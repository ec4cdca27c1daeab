package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// StudyType identifies which configurator produced a cart item.
type StudyType string

const (
	StudyTypeInvitro      StudyType = "Invitro Study"
	StudyTypeToxicity     StudyType = "Toxicity Study"
	StudyTypeMicrobiology StudyType = "Microbiology & Virology Study"
)

const (
	// OthersOption is the selectable value that unlocks a custom text field.
	OthersOption = "Others"
	// MaxCustomTextLength caps custom "Others" text, in characters.
	MaxCustomTextLength = 20
	// QuoteValidityDays is how long a cart item's quotation stays valid.
	QuoteValidityDays = 30
	// DateLayout renders dates as DD/MM/YYYY.
	DateLayout = "02/01/2006"
)

// CartItem is one configured, priced study awaiting checkout.
type CartItem struct {
	ID        string    `json:"id"`
	ConfigNo  string    `json:"configNo"`
	StudyType StudyType `json:"studyType"`
	Category  string    `json:"category"`

	SampleForm    string `json:"sampleForm"`
	SampleSolvent string `json:"sampleSolvent"`
	NumSamples    int    `json:"numSamples"`

	SelectedGuidelines      []string `json:"selectedGuidelines"`
	SampleFormGuidelines    []string `json:"sampleFormGuidelines"`
	SampleSolventGuidelines []string `json:"sampleSolventGuidelines"`
	ApplicationGuidelines   []string `json:"applicationGuidelines"`

	SelectedTherapeuticAreas []string `json:"selectedTherapeuticAreas"`

	SelectedMicroorganismType string   `json:"selectedMicroorganismType,omitempty"`
	SelectedMicroorganism     []string `json:"selectedMicroorganism,omitempty"`
	SelectedStudies           []string `json:"selectedStudies,omitempty"`
	SelectedApplications      []string `json:"selectedApplications,omitempty"`
	CustomMicroorganism       string   `json:"customMicroorganism,omitempty"`

	Price       float64 `json:"price"`
	CreatedOn   string  `json:"createdOn"`
	ValidTill   string  `json:"validTill"`
	Description string  `json:"description"`
}

// AllGuidelines returns the de-duplicated union of every guideline list on
// the item. Microbiology items contribute their selected studies.
func (c CartItem) AllGuidelines() []string {
	if c.StudyType == StudyTypeMicrobiology {
		return MergeGuidelines(c.SelectedStudies, c.ApplicationGuidelines)
	}
	return MergeGuidelines(c.SelectedGuidelines, c.SampleFormGuidelines, c.SampleSolventGuidelines, c.ApplicationGuidelines)
}

// MergeGuidelines concatenates the lists and drops exact duplicates, keeping
// the first occurrence of each name. Empty names are skipped.
func MergeGuidelines(lists ...[]string) []string {
	seen := make(map[string]bool)
	merged := []string{}
	for _, list := range lists {
		for _, name := range list {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			merged = append(merged, name)
		}
	}
	return merged
}

// CapCustomText trims s and truncates it to MaxCustomTextLength characters.
func CapCustomText(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCustomTextLength {
		return s
	}
	return string([]rune(s)[:MaxCustomTextLength])
}

// ToDisplayValue folds an "Others" selection and its custom text into the
// single stored value "Others (<custom>)". Any other selection is returned
// unchanged.
func ToDisplayValue(selected, custom string) string {
	if selected != OthersOption {
		return selected
	}
	return fmt.Sprintf("%s (%s)", OthersOption, CapCustomText(custom))
}

// FromDisplayValue is the inverse of ToDisplayValue. Values not wrapped as
// "Others (...)" come back as the selection with empty custom text.
func FromDisplayValue(display string) (selected, custom string) {
	prefix := OthersOption + " ("
	if strings.HasPrefix(display, prefix) && strings.HasSuffix(display, ")") {
		return OthersOption, display[len(prefix) : len(display)-1]
	}
	return display, ""
}

// NewCartItemID returns "<unix millis>-<9 base36 chars>".
func NewCartItemID(now time.Time, rng *rand.Rand) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}

// NewConfigNo returns a fresh "RR" + 6 digit reference code.
func NewConfigNo(rng *rand.Rand) string {
	return fmt.Sprintf("RR%06d", rng.Intn(1000000))
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DD/MM/YYYY date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// NewCartItemDates returns the created-on and valid-till dates for an item
// created at now.
func NewCartItemDates(now time.Time) (createdOn, validTill string) {
	return FormatDate(now), FormatDate(now.AddDate(0, 0, QuoteValidityDays))
}

// StampIdentity fills the id, config number and dates of a new item. Values
// already present are preserved so edits keep their original identity.
func StampIdentity(item *CartItem, now time.Time, rng *rand.Rand) {
	if item.ID == "" {
		item.ID = NewCartItemID(now, rng)
	}
	if item.ConfigNo == "" {
		item.ConfigNo = NewConfigNo(rng)
	}
	if item.CreatedOn == "" {
		item.CreatedOn, item.ValidTill = NewCartItemDates(now)
	}
	if item.ValidTill == "" {
		if created, err := ParseDate(item.CreatedOn); err == nil {
			item.ValidTill = FormatDate(created.AddDate(0, 0, QuoteValidityDays))
		}
	}
}
