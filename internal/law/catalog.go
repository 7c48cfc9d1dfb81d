// Package law holds the statutory catalog and finds the provision most
// relevant to a clause.
package law

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
)

const (
	contractAct  = "Indian Contract Act, 1872"
	copyrightAct = "Indian Copyright Act, 1957"
)

// Catalog is an immutable, ordered set of law records
type Catalog struct {
	laws []model.LawRecord
}

// NewCatalog creates a catalog from records, keeping their order
func NewCatalog(laws []model.LawRecord) *Catalog {
	out := make([]model.LawRecord, len(laws))
	copy(out, laws)
	return &Catalog{laws: out}
}

// DefaultCatalog returns the compiled-in provisions
func DefaultCatalog() *Catalog {
	return NewCatalog([]model.LawRecord{
		{
			Section: "Section 10",
			Act:     contractAct,
			Title:   "What agreements are contracts",
			Text:    "All agreements are contracts if they are made by the free consent of parties competent to contract, for a lawful consideration and with a lawful object, and are not hereby expressly declared to be void.",
			Summary: "Defines essential elements of a valid contract: free consent, competent parties, lawful consideration, and lawful object.",
		},
		{
			Section: "Section 23",
			Act:     contractAct,
			Title:   "What considerations and objects are unlawful",
			Text:    "The consideration or object of an agreement is unlawful if it is forbidden by law, or is of such a nature that, if permitted, it would defeat the provisions of any law, or is fraudulent, or involves or implies injury to the person or property of another, or the Court regards it as immoral or opposed to public policy.",
			Summary: "Agreements with unlawful consideration or object are void. This includes illegal activities, fraud, injury to others, immoral acts, or violations of public policy.",
		},
		{
			Section: "Section 27",
			Act:     contractAct,
			Title:   "Agreement in restraint of trade",
			Text:    "Every agreement by which anyone is restrained from exercising a lawful profession, trade or business of any kind, is to that extent void. Exception: One who sells the goodwill of a business may agree with the buyer to refrain from carrying on a similar business, within specified local limits.",
			Summary: "Non-compete agreements that prevent someone from working in their profession are void in India, except in cases of business sale with goodwill.",
		},
		{
			Section: "Section 28",
			Act:     contractAct,
			Title:   "Agreement in restraint of legal proceedings",
			Text:    "Every agreement, by which any party thereto is restricted absolutely from enforcing his rights under or in respect of any contract, by the usual legal proceedings in the ordinary tribunals, or which limits the time within which he may thus enforce his rights, is void to that extent.",
			Summary: "Agreements that prevent parties from taking legal action are void.",
		},
		{
			Section: "Section 74",
			Act:     contractAct,
			Title:   "Compensation for breach of contract where penalty stipulated for",
			Text:    "When a contract has been broken, if a sum is named in the contract as the amount to be paid in case of such breach, or if the contract contains any other stipulation by way of penalty, the party complaining of the breach is entitled, whether or not actual damage or loss is proved to have been caused thereby, to receive from the party who has broken the contract reasonable compensation not exceeding the amount so named or, as the case may be, the penalty stipulated for.",
			Summary: "Penalty clauses must be reasonable compensation for actual losses, not punitive. Courts can reduce excessive penalties.",
		},
		{
			Section: "Section 16",
			Act:     contractAct,
			Title:   "Undue influence",
			Text:    "A contract is said to be induced by 'undue influence' where the relations subsisting between the parties are such that one of the parties is in a position to dominate the will of the other and uses that position to obtain an unfair advantage.",
			Summary: "Contracts obtained through undue influence (dominating the other party's will) are voidable.",
		},
		{
			Section: "Section 19",
			Act:     contractAct,
			Title:   "Voidability of agreements without free consent",
			Text:    "When consent to an agreement is caused by coercion, fraud, or misrepresentation, the agreement is a contract voidable at the option of the party whose consent was so caused.",
			Summary: "Contracts made without free consent (due to coercion, fraud, or misrepresentation) can be canceled by the affected party.",
		},
		{
			Section: "Section 64",
			Act:     copyrightAct,
			Title:   "Assignment of copyright",
			Text:    "The owner of the copyright in an existing work or the prospective owner of the copyright in a future work may assign to any person the copyright either wholly or partially and for a limited period or for the duration of the copyright.",
			Summary: "Copyright can be assigned, but any assignment must be clearly defined in scope and duration.",
		},
	})
}

// LoadCatalog reads a JSON array of law records. The returned catalog is
// always usable: on failure it is the default and the error says why.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultCatalog(), fmt.Errorf("read law catalog: %w", err)
	}

	var laws []model.LawRecord
	if err := json.Unmarshal(data, &laws); err != nil {
		return DefaultCatalog(), fmt.Errorf("parse law catalog %s: %w", path, err)
	}
	if len(laws) == 0 {
		return DefaultCatalog(), errors.New("law catalog is empty")
	}
	for i, l := range laws {
		if l.Section == "" || l.Act == "" {
			return DefaultCatalog(), fmt.Errorf("law catalog %s: record %d lacks section or act", path, i)
		}
	}
	return NewCatalog(laws), nil
}

// All returns a copy of every record in catalog order
func (c *Catalog) All() []model.LawRecord {
	out := make([]model.LawRecord, len(c.laws))
	copy(out, c.laws)
	return out
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.laws)
}

// BySection finds a record by "27" or "Section 27", case-insensitively
func (c *Catalog) BySection(section string) (*model.LawRecord, bool) {
	want := normalizeSection(section)
	for _, l := range c.laws {
		if normalizeSection(l.Section) == want {
			rec := l
			return &rec, true
		}
	}
	return nil, false
}

func normalizeSection(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "section") {
		s = "section " + s
	}
	return strings.Join(strings.Fields(s), " ")
}
