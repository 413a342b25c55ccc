package categorizer

import (
	"context"
	"regexp"
	"strings"

	"fjacquet/bankstmt/internal/logging"
	"fjacquet/bankstmt/internal/models"
)

// StrategyRules is the name of the keyword rule strategy.
const StrategyRules = "rules"

// regexShaped holds the characters that mark a keyword as a pattern rather
// than a plain word.
const regexShaped = `.?+*^$()[]{}|\`

// DefaultRules is the built-in rule table, in match order.
func DefaultRules() []models.CategoryRule {
	return []models.CategoryRule{
		{Name: models.CategoryFoodDining, Keywords: []string{"ZOMATO", "SWIGGY", "RESTAURANT", "CAFE", "FOOD", "HOTEL", "JALEBI", "TEA VILL", "KAKA HAL", "RED CHUT", "BASKIN R", "EATCLUB", "MEJWANI", "MCDONALD"}},
		{Name: models.CategoryTravel, Keywords: []string{"UBER", "OLA", "IRCTC", "RAILWAY", "FLIGHT", "TICKET", "CONFIRMTICKET", "MERU", "RAPIDO"}},
		{Name: models.CategoryGroceries, Keywords: []string{"ZEPTO", "BLINKIT", "GROCERY", "MART", "SUPERMARKET", "BIGBASKET", "DMART", "GROFERS", "RATNADEEP", "MORE SUPERMARKET"}},
		{Name: models.CategoryShopping, Keywords: []string{"MYNTRA", "AMAZON", "FLIPKART", "SHOPCLUES", "AJIO", "SHOP", "CLOTHING", "CRED", "MALL", "LIFESTYLE", "PANTALOONS", "SHOPPERS STOP", "NYKAA"}},
		{Name: models.CategoryUtilities, Keywords: []string{"BILLPAY", "ELECTRICITY", "MOBILE", "RECHARGE", "AIRTEL", "VODAFONE", "JIO", "GOOGLE PLAY", `PAYTM.?POSTPAID`, "BSNL", "GAS", "WATER", "BROADBAND", "DTH"}},
		{Name: models.CategorySalaryIncome, Keywords: []string{"SALARY", "PUBMATIC", "INCOME", "STIPEND", "COMMISSION", "DIVIDEND"}},
		{Name: models.CategoryTransfers, Keywords: []string{"NEFT", "RTGS", "IMPS", "TRANSFER", "PAYMENT FROM PHONE", `UPI/?AB`, `UPI/?CR`, "FUND TRANSFER"}},
		{Name: models.CategoryFeesCharges, Keywords: []string{"SMS CHARGES", "FEE", "CHARGE", "ANNUAL MAINT", "AMC", "BANK CHARGE"}},
		{Name: models.CategoryEntertainment, Keywords: []string{"BOOKMYSHOW", "PVR", "NETFLIX", "SPOTIFY", "YOUTUBE", "PRIME VIDEO", "HOTSTAR", "DISNEY", "INOX", "GAMING", "ZEE5"}},
		{Name: models.CategoryRent, Keywords: []string{"RENT", "HOUSING SOCIETY", "MAINTENANCE", "NOBROKER"}},
		{Name: models.CategoryInvestment, Keywords: []string{"ZERODHA", "UPSTOX", "GROWW", "MUTUAL FUND", "SIP", "ICCLZR", "SHARES", "STOCKS", "ETMONEY"}},
		{Name: models.CategoryHealthMedical, Keywords: []string{"PHARMACY", "HOSPITAL", "DOCTOR", "MEDICAL", "APOLLO", "S S HOSP", "MEDPLUS", "NETMEDS"}},
		{Name: models.CategoryFuel, Keywords: []string{"PETROL", "DIESEL", "FUEL", "HP PETRO", "INDIAN OIL", "IOCL", "BPCL", "SHELL"}},
	}
}

// matcher is one compiled keyword. Keywords that fail to compile as patterns
// fall back to a case-insensitive substring test.
type matcher struct {
	keyword   string
	re        *regexp.Regexp
	substring string
}

func (m matcher) match(lower string) bool {
	if m.re != nil {
		return m.re.MatchString(lower)
	}
	return strings.Contains(lower, m.substring)
}

type compiledRule struct {
	category string
	matchers []matcher
}

// RuleStrategy matches descriptions against a keyword table. Plain keywords
// match on word boundaries; regex-shaped keywords are used as patterns. The
// first category with a matching keyword wins.
type RuleStrategy struct {
	rules  []compiledRule
	logger logging.Logger
}

// NewRuleStrategy compiles rules. An empty table selects DefaultRules.
func NewRuleStrategy(rules []models.CategoryRule, logger logging.Logger) *RuleStrategy {
	if logger == nil {
		logger = logging.Nop()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	s := &RuleStrategy{logger: logger, rules: make([]compiledRule, 0, len(rules))}
	for _, rule := range rules {
		cr := compiledRule{category: rule.Name}
		for _, keyword := range rule.Keywords {
			if strings.TrimSpace(keyword) == "" {
				continue
			}
			cr.matchers = append(cr.matchers, s.compile(rule.Name, keyword))
		}
		s.rules = append(s.rules, cr)
	}
	return s
}

func (s *RuleStrategy) compile(category, keyword string) matcher {
	lower := strings.ToLower(keyword)
	pattern := `\b` + regexp.QuoteMeta(lower) + `\b`
	if strings.ContainsAny(keyword, regexShaped) {
		pattern = lower
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		s.logger.WithError(err).Warn("Invalid keyword pattern, using substring match",
			logging.F(logging.FieldCategory, category),
			logging.F("keyword", keyword))
		return matcher{keyword: keyword, substring: lower}
	}
	return matcher{keyword: keyword, re: re}
}

// Name implements Strategy.
func (s *RuleStrategy) Name() string { return StrategyRules }

// Categories returns the rule categories in table order.
func (s *RuleStrategy) Categories() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.category
	}
	return names
}

// Categorize implements Strategy.
func (s *RuleStrategy) Categorize(_ context.Context, description string) (string, bool, error) {
	lower := strings.ToLower(description)
	for _, rule := range s.rules {
		for _, m := range rule.matchers {
			if m.match(lower) {
				s.logger.Debug("Keyword matched",
					logging.F(logging.FieldCategory, rule.category),
					logging.F("keyword", m.keyword))
				return rule.category, true, nil
			}
		}
	}
	return "", false, nil
}
