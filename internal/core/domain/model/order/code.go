package order

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var codePattern = regexp.MustCompile(`^(PO|SO)-\d{4}-[0-9A-F]{6}$`)

// NewCode builds a code such as "PO-2026-3FA9C1". Codes are random, not
// sequential; the orders.code unique index rejects the rare collision.
func NewCode(kind Kind, now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(hex.EncodeToString(id[:3]))
	return fmt.Sprintf("%s-%d-%s", kind.CodePrefix(), now.UTC().Year(), suffix)
}

func IsValidCode(code string) bool {
	return codePattern.MatchString(code)
}
