package formula

import (
	"strings"

	"github.com/ukaji3/exsheet-go/pkg/exsheet/models"
	"github.com/xuri/efp"
)

// maxRangeCells bounds how many cells a single range may expand to.
const maxRangeCells = 1 << 16

// References returns the cells a formula refers to, ranges expanded, in
// order of first appearance. Cross-sheet references and names that are not
// cell addresses are skipped. value may include the leading "=".
func References(value string) []models.CellRef {
	expr := strings.TrimPrefix(value, "=")
	if expr == "" {
		return nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(expr)

	seen := make(map[models.CellRef]bool)
	var refs []models.CellRef
	add := func(c models.CellRef) {
		if !seen[c] {
			seen[c] = true
			refs = append(refs, c)
		}
	}

	for _, token := range tokens {
		if token.TType != efp.TokenTypeOperand || token.TSubType != efp.TokenSubTypeRange {
			continue
		}
		ref := strings.ReplaceAll(token.TValue, "$", "")
		if strings.Contains(ref, "!") {
			continue
		}
		if strings.Contains(ref, ":") {
			rng, err := models.ParseRange(ref)
			if err != nil || (rng.R2-rng.R1+1)*(rng.C2-rng.C1+1) > maxRangeCells {
				continue
			}
			for _, c := range rng.Cells() {
				add(c)
			}
			continue
		}
		c, err := models.ParseCellRef(strings.ToUpper(ref))
		if err != nil {
			continue
		}
		add(c)
	}
	return refs
}
