package models

// Categories with special meaning to the parser.
const (
	CategoryUncategorized = "Uncategorized"
	CategorySalaryIncome  = "Salary/Income"
)

// Built-in rule categories.
const (
	CategoryFoodDining    = "Food & Dining"
	CategoryTravel        = "Travel"
	CategoryGroceries     = "Groceries"
	CategoryShopping      = "Shopping"
	CategoryUtilities     = "Utilities"
	CategoryTransfers     = "Transfers"
	CategoryFeesCharges   = "Fees/Charges"
	CategoryEntertainment = "Entertainment"
	CategoryRent          = "Rent"
	CategoryInvestment    = "Investment"
	CategoryHealthMedical = "Health/Medical"
	CategoryFuel          = "Fuel"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionFile       = 0644
)
