// Package naming derives canonical display names for source accounts and
// remembers which target account name each source account was last linked to.
package naming

import (
	"strings"

	"github.com/Veraticus/networth/internal/model"
)

// DefaultJointOwner is the owner value that denotes a jointly held account.
const DefaultJointOwner = "Joint"

// taxAnnotations translates tax types into the label shown after IRA and
// 401k names. Tax types missing from the table are shown verbatim.
var taxAnnotations = map[model.TaxType]string{
	model.TaxFree:     "Roth",
	model.TaxDeferred: "Traditional",
	model.AfterTax:    "Taxable",
}

// Namer builds canonical account names.
type Namer struct {
	JointOwner string
}

// New returns a Namer that treats jointOwner as the joint identity.
func New(jointOwner string) Namer {
	if strings.TrimSpace(jointOwner) == "" {
		jointOwner = DefaultJointOwner
	}
	return Namer{JointOwner: jointOwner}
}

// Name returns the canonical name for the given attributes, e.g.
// "Alice's Vanguard IRA (Roth) - Rollover". Empty parts are skipped.
func (n Namer) Name(owner string, taxType model.TaxType, accountType model.AccountType, institution, description string) string {
	parts := make([]string, 0, 4)

	owner = strings.TrimSpace(owner)
	switch {
	case owner == "":
	case strings.EqualFold(owner, n.jointOwner()):
		parts = append(parts, "Joint")
	default:
		parts = append(parts, owner+"'s")
	}

	if inst := strings.TrimSpace(institution); inst != "" {
		parts = append(parts, inst)
	}
	if at := strings.TrimSpace(string(accountType)); at != "" {
		parts = append(parts, at)
	}
	if accountType == model.AccountIRA || accountType == model.Account401k {
		if label := annotation(taxType); label != "" {
			parts = append(parts, "("+label+")")
		}
	}

	name := strings.Join(parts, " ")
	if desc := strings.TrimSpace(description); desc != "" {
		name += " - " + desc
	}
	return strings.TrimSpace(name)
}

// For returns the canonical name of a source account.
func (n Namer) For(a model.SourceAccount) string {
	return n.Name(a.Owner, a.TaxType, a.AccountType, a.Institution, a.Description)
}

func (n Namer) jointOwner() string {
	if n.JointOwner == "" {
		return DefaultJointOwner
	}
	return n.JointOwner
}

func annotation(t model.TaxType) string {
	if label, ok := taxAnnotations[t]; ok {
		return label
	}
	return strings.TrimSpace(string(t))
}

// Name is a convenience wrapper using the default joint identity.
func Name(owner string, taxType model.TaxType, accountType model.AccountType, institution, description string) string {
	return New(DefaultJointOwner).Name(owner, taxType, accountType, institution, description)
}

// Normalize trims a name and collapses inner whitespace. Case is preserved.
func Normalize(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
