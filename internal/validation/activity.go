package validation

import (
	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// ValidActivityType contains the activity types a client may post.
// Investment and exit entries carry ledger amounts and are only written by
// the investment and portfolio services.
var ValidActivityType = map[string]bool{
	model.ActivityTypeUpdate:    true,
	model.ActivityTypeMilestone: true,
}

// ValidateCreateActivity validates an activity feed entry.
// The activity date defaults to today when omitted.
func ValidateCreateActivity(req request.CreateActivityRequest) (model.ActivityInsert, error) {
	errs := make(map[string]string)

	fundID := reference(errs, "fundId", req.FundID, true)
	companyID := reference(errs, "companyId", req.CompanyID, false)
	activityType := enum(errs, "type", req.Type, "", ValidActivityType)
	title := requiredString(errs, "title", req.Title, 200)
	description := optionalString(errs, "description", req.Description, 2000)
	amount := money(errs, "amount", req.Amount, false, false)
	activityDate := date(errs, "activityDate", req.ActivityDate, false)

	if err := result(errs); err != nil {
		return model.ActivityInsert{}, err
	}

	return model.ActivityInsert{
		FundID:       *fundID,
		CompanyID:    companyID,
		Type:         activityType,
		Title:        title,
		Description:  description,
		Amount:       amount,
		ActivityDate: activityDate,
	}, nil
}
