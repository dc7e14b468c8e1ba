package controllers

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/purchase-zero/backend/pkg/models"
)

var validate = validator.New()

// fieldErrors maps validated fields to the error reported when they are invalid.
// Slice indices are removed from the namespace.
var fieldErrors = map[string]error{
	"Vendor.Name":                 models.ErrVendorNameRequired,
	"Budget.Code":                 models.ErrBudgetCodeRequired,
	"Budget.Name":                 models.ErrBudgetNameRequired,
	"Purchase.OrderNumber":        models.ErrOrderNumberRequired,
	"Purchase.Date":               models.ErrDateRequired,
	"Purchase.VendorID":           models.ErrVendorRequired,
	"Purchase.Status":             models.ErrInvalidStatus,
	"Purchase.LineItems.Quantity": models.ErrInvalidQuantity,
	"Purchase.Budgets.BudgetID":   models.ErrBudgetRequired,
}

var index = regexp.MustCompile(`\[\d+\]`)

// check validates the struct and translates the first failure
// into the matching error.
func check(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := verrs[0]
	if e, ok := fieldErrors[index.ReplaceAllString(fe.StructNamespace(), "")]; ok {
		return e
	}

	return fmt.Errorf("%s is not valid", fe.Field())
}
