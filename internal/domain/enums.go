package domain

// RowKind determines a grid row's placement rules.
type RowKind string

const (
	RowKindPrimary      RowKind = "primary"
	RowKindContinuation RowKind = "continuation"
	RowKindSubItem      RowKind = "sub_item"
)

// IsDependent returns true for row kinds that resolve a parent positionally.
func (k RowKind) IsDependent() bool {
	return k == RowKindContinuation || k == RowKindSubItem
}

// FieldCategory classifies a configured field for row completeness checks.
type FieldCategory string

const (
	// CategoryCompleteSet fields must be filled together or not at all.
	CategoryCompleteSet FieldCategory = "complete_set"
	// CategorySufficient fields make the row priceable when any one is filled.
	CategorySufficient FieldCategory = "sufficient"
	// CategorySupplementary fields refine a row but never establish it.
	CategorySupplementary FieldCategory = "supplementary"
	// CategoryContextDependent is resolved at validation time by a CategoryResolver.
	CategoryContextDependent FieldCategory = "context_dependent"
)

// ErrorLevel is the configured severity of a field rule. Warnings are
// escalated to blocking by engine policy before results are published.
type ErrorLevel string

const (
	ErrorLevelBlocking ErrorLevel = "blocking"
	ErrorLevelWarning  ErrorLevel = "warning"
)

// ProductCategory is the metadata tag attached to a product type.
type ProductCategory string

const (
	ProductCategoryStandard ProductCategory = "standard"
	// ProductCategorySpecial marks marker-like product types that cannot own
	// sub-item rows.
	ProductCategorySpecial ProductCategory = "special"
	// ProductCategoryAssembly marks trailing assembly marker rows.
	ProductCategoryAssembly ProductCategory = "assembly"
	// ProductCategoryDivider marks subtotal/divider rows.
	ProductCategoryDivider ProductCategory = "divider"
)

// EstimateStatus represents the lifecycle of an estimate.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusApproved EstimateStatus = "approved"
	EstimateStatusArchived EstimateStatus = "archived"
)

// UserRole defines the role hierarchy.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleEstimator UserRole = "estimator"
)
