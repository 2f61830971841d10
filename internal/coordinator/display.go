package coordinator

import "fmt"

// Placeholder lines. The "__.__" and "__:__" glyphs differ on purpose:
// status bar parsers key on these exact strings.
const (
	lineNothingKnown = "H __.__ $__.__ $__.__"
	linePriceOnly    = "H __:__ $%s $__:__"
	lineBalanceOnly  = "H %s $__:__ $__:__"
	lineBothKnown    = "H %s $%s $%s"
)

// Render formats the status line for s. Values are shown with two decimals;
// the account value is balance times price and only appears when both are known.
func Render(s State) string {
	balance, haveBalance := s.Balance.Value()
	price, havePrice := s.Price.Value()

	switch {
	case haveBalance && havePrice:
		return fmt.Sprintf(lineBothKnown,
			balance.StringFixed(2),
			price.StringFixed(2),
			balance.Mul(price).StringFixed(2))
	case haveBalance:
		return fmt.Sprintf(lineBalanceOnly, balance.StringFixed(2))
	case havePrice:
		return fmt.Sprintf(linePriceOnly, price.StringFixed(2))
	default:
		return lineNothingKnown
	}
}
