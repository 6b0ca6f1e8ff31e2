package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountNature indicates which side of an entry increases the account balance.
type AccountNature string

const (
	DebitNature  AccountNature = "DEBIT"
	CreditNature AccountNature = "CREDIT"
)

// NatureFor returns the nature conventionally paired with an account type.
// Asset and expense accounts carry a debit nature; liability, equity and
// revenue accounts carry a credit nature.
func NatureFor(accountType AccountType) (AccountNature, error) {
	switch accountType {
	case Asset, Expense:
		return DebitNature, nil
	case Liability, Equity, Revenue:
		return CreditNature, nil
	default:
		return "", fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// Account represents one node of the hierarchical chart of accounts.
// Code is a dotted hierarchical string such as "1.1.2.01"; Level and
// ParentCode are derived from it at registration time. Accounts are immutable
// after registration except for IsActive.
type Account struct {
	Code        string        `json:"code"`
	ReducedCode string        `json:"reducedCode"`
	Name        string        `json:"name"`
	AccountType AccountType   `json:"accountType"`
	Nature      AccountNature `json:"nature"`
	Level       int           `json:"level"`
	ParentCode  string        `json:"parentCode"`
	IsActive    bool          `json:"isActive"`
	AuditFields
}

// ParseAccountCode validates a dotted account code and derives its level and
// parent code. The parent is the code with its last dot-segment removed; a
// level-1 code has no parent.
func ParseAccountCode(code string) (level int, parentCode string, err error) {
	if code == "" {
		return 0, "", fmt.Errorf("account code must not be empty")
	}
	segments := strings.Split(code, ".")
	for _, seg := range segments {
		if seg == "" {
			return 0, "", fmt.Errorf("account code '%s' has an empty segment", code)
		}
		if _, convErr := strconv.Atoi(seg); convErr != nil {
			return 0, "", fmt.Errorf("account code segment '%s' is not numeric", seg)
		}
	}
	level = len(segments)
	if level > 1 {
		parentCode = strings.Join(segments[:level-1], ".")
	}
	return level, parentCode, nil
}

// CompareAccountCodes orders two dotted codes by numeric segment comparison,
// so "1.2" sorts before "1.10". A lexicographic sort would invert them.
func CompareAccountCodes(a, b string) int {
	segsA := strings.Split(a, ".")
	segsB := strings.Split(b, ".")
	for i := 0; i < len(segsA) && i < len(segsB); i++ {
		numA, errA := strconv.Atoi(segsA[i])
		numB, errB := strconv.Atoi(segsB[i])
		if errA != nil || errB != nil {
			// Malformed segments fall back to string order.
			if segsA[i] != segsB[i] {
				return strings.Compare(segsA[i], segsB[i])
			}
			continue
		}
		if numA != numB {
			if numA < numB {
				return -1
			}
			return 1
		}
	}
	return len(segsA) - len(segsB)
}
