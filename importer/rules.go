package importer

import "strings"

// Field is a semantic roster column.
type Field string

const (
	FieldFullName         Field = "fullName"
	FieldFirstName        Field = "firstName"
	FieldLastName         Field = "lastName"
	FieldPhone            Field = "phone"
	FieldEmail            Field = "email"
	FieldAddress          Field = "address"
	FieldSuburb           Field = "suburb"
	FieldEmergencyContact Field = "emergencyContact"
)

// MatchMode selects how a rule compares a header against its synonyms.
type MatchMode int

const (
	// MatchSynonym: header equals, contains, or is contained by a synonym.
	MatchSynonym MatchMode = iota
	// MatchSubstring: header contains a synonym.
	MatchSubstring
)

type guardFunc func(header string, column int, rules RuleSet, columns ColumnMap) bool

// Rule decides whether a header column belongs to Field. Rules run in
// RuleSet order for every header, left to right.
type Rule struct {
	Field      Field
	Weight     int
	Mode       MatchMode
	Synonyms   []string
	Exclusions []string
	guard      guardFunc
}

// RuleSet is the ordered rule table used by column detection.
type RuleSet []Rule

// Claims reports whether the rule assigns header at column, given the
// columns assigned so far. A field already assigned never claims again.
func (r Rule) Claims(header string, column int, rules RuleSet, columns ColumnMap) bool {
	if _, assigned := columns[r.Field]; assigned {
		return false
	}
	if !r.matches(header) {
		return false
	}
	if containsAny(header, r.Exclusions) {
		return false
	}
	if r.guard != nil && !r.guard(header, column, rules, columns) {
		return false
	}
	return true
}

func (r Rule) matches(header string) bool {
	if r.Mode == MatchSubstring {
		return containsAny(header, r.Synonyms)
	}
	return matchesAny(header, r.Synonyms)
}

func (rs RuleSet) Rule(field Field) (Rule, bool) {
	for _, rule := range rs {
		if rule.Field == field {
			return rule, true
		}
	}
	return Rule{}, false
}

// Extend returns a copy of the set with extra synonyms and exclusions
// appended to the rule for field. Unknown fields are ignored.
func (rs RuleSet) Extend(field Field, synonyms, exclusions []string) RuleSet {
	out := make(RuleSet, len(rs))
	copy(out, rs)
	for i := range out {
		if out[i].Field != field {
			continue
		}
		out[i].Synonyms = append(append([]string(nil), out[i].Synonyms...), normalizeTerms(synonyms)...)
		out[i].Exclusions = append(append([]string(nil), out[i].Exclusions...), normalizeTerms(exclusions)...)
	}
	return out
}

// DefaultRules returns the built-in roster rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		{Field: FieldFullName, Weight: 3, Synonyms: fullNameSynonyms, guard: notFirstOrLastName},
		{Field: FieldFirstName, Weight: 2, Synonyms: firstNameSynonyms, guard: notFullNameColumn},
		{Field: FieldLastName, Weight: 2, Synonyms: lastNameSynonyms, guard: notFullNameColumn},
		{Field: FieldPhone, Weight: 1, Synonyms: phoneSynonyms, Exclusions: phoneExclusions, guard: notNameColumn},
		{Field: FieldEmail, Weight: 1, Mode: MatchSubstring, Synonyms: emailMarkers, Exclusions: emailExclusions, guard: notNameColumn},
		{Field: FieldAddress, Synonyms: addressSynonyms, Exclusions: []string{"email", "e-mail"}, guard: notNameColumn},
		{Field: FieldSuburb, Synonyms: suburbSynonyms, guard: notNameColumn},
		{Field: FieldEmergencyContact, Synonyms: emergencySynonyms, guard: notNameColumn},
	}
}

var nameFields = []Field{FieldFullName, FieldFirstName, FieldLastName}

// A header like "First Name" also contains "name"; it is not a full name.
// Only whole-word containment counts here: a bare "Name" stays a full-name
// column and "Full Name" is not mistaken for "l name".
func notFirstOrLastName(header string, _ int, rules RuleSet, _ ColumnMap) bool {
	for _, field := range []Field{FieldFirstName, FieldLastName} {
		rule, ok := rules.Rule(field)
		if !ok {
			continue
		}
		for _, synonym := range rule.Synonyms {
			if containsWord(header, synonym) {
				return false
			}
		}
	}
	return true
}

func notFullNameColumn(_ string, column int, _ RuleSet, columns ColumnMap) bool {
	claimed, ok := columns[FieldFullName]
	return !ok || claimed != column
}

func notNameColumn(_ string, column int, _ RuleSet, columns ColumnMap) bool {
	for _, field := range nameFields {
		if claimed, ok := columns[field]; ok && claimed == column {
			return false
		}
	}
	return true
}

func matchesAny(header string, keywords []string) bool {
	for _, keyword := range keywords {
		if header == keyword || strings.Contains(header, keyword) || strings.Contains(keyword, header) {
			return true
		}
	}
	return false
}

// containsWord reports whether term occurs in header bounded by the string
// edges or non-letter characters.
func containsWord(header, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset <= len(header)-len(term); {
		index := strings.Index(header[offset:], term)
		if index < 0 {
			return false
		}
		start := offset + index
		end := start + len(term)
		if (start == 0 || !isLetter(header[start-1])) && (end == len(header) || !isLetter(header[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func containsAny(header string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(header, term) {
			return true
		}
	}
	return false
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		if normalized := normalizeHeader(term); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

func normalizeHeader(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

var firstNameSynonyms = []string{
	"first name", "firstname", "first_name", "fname", "f name",
	"given name", "givenname", "given_name", "given",
	"forename", "fore name", "christian name",
	"preferred name", "preferredname",
}

var lastNameSynonyms = []string{
	"last name", "lastname", "last_name", "lname", "l name",
	"surname", "sur name", "sur_name",
	"family name", "familyname", "family_name", "family",
	"second name", "secondname",
}

var fullNameSynonyms = []string{
	"full name", "fullname", "full_name",
	"name", "volunteer name", "volunteername", "volunteer_name",
	"member name", "membername", "member_name",
	"person name", "personname", "person_name",
	"participant name", "participantname", "participant_name",
	"student name", "studentname", "student_name",
	"display name", "displayname", "display_name",
}

var phoneSynonyms = []string{
	"phone", "phone number", "phonenumber", "phone_number", "phone no", "phone #",
	"mobile", "mobile number", "mobilenumber", "mobile_number", "mobile no", "mobile #",
	"cell", "cell phone", "cellphone", "cell_phone", "cellular",
	"telephone", "tel", "tel no", "tel number", "tel#",
	"contact number", "contactnumber", "contact_number", "contact no",
	"ph", "ph#", "mob", "mob#",
	"home phone", "homephone", "home_phone",
	"work phone", "workphone", "work_phone",
	"primary phone", "primaryphone", "primary_phone",
}

var phoneExclusions = []string{
	"address", "street", "suburb", "city", "postcode", "zip",
	"emergency", "kin", "ice", "contact 2", "secondary", "alternate",
}

var emailMarkers = []string{"email", "e-mail", "e mail"}

var emailExclusions = []string{
	"home address", "street address", "mailing address", "postal address",
	"residential address", "physical address", "business address", "work address",
}

var addressSynonyms = []string{
	"address", "home address", "street address", "residential address",
	"physical address", "mailing address", "postal address",
	"street", "street name", "addr", "location",
}

var suburbSynonyms = []string{
	"suburb", "city", "town", "locality", "area", "district",
	"suburb/city", "city/suburb", "suburb/town",
}

var emergencySynonyms = []string{
	"emergency contact", "emergencycontact", "emergency_contact",
	"emergency", "emergency phone", "emergency number",
	"next of kin", "nextofkin", "next_of_kin", "nok",
	"ice contact", "ice", "in case of emergency",
	"emergency name", "emergency person",
	"contact 2", "secondary contact", "alternate contact",
	"parent", "guardian", "mother", "father",
	"spouse", "partner", "husband", "wife",
}
