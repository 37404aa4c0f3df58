package validation

import (
	"strings"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/model"
)

// ValidFundStatus contains the allowed fund status values.
var ValidFundStatus = map[string]bool{
	model.FundStatusActive: true, model.FundStatusClosed: true, model.FundStatusOther: true,
}

// ValidateCreateFund validates a fund creation request.
//
// Required fields:
//   - name: at most 100 characters
//   - size: positive currency amount
//   - managementFee, carryPercentage: fractions between 0 and 1
//   - vintageYear: between 1900 and 2100
//
// Optional fields:
//   - deployedCapital: currency amount not exceeding size (defaults to 0)
//   - status: active, closed or other (defaults to active)
//
// Returns a validation Error naming every invalid field.
func ValidateCreateFund(req request.CreateFundRequest) (model.FundInsert, error) {
	errs := make(map[string]string)

	name := requiredString(errs, "name", req.Name, 100)
	size := money(errs, "size", req.Size, true, true)
	deployed := money(errs, "deployedCapital", req.DeployedCapital, false, false)
	fee := fraction(errs, "managementFee", req.ManagementFee, true)
	carry := fraction(errs, "carryPercentage", req.CarryPercentage, true)
	vintage := year(errs, "vintageYear", req.VintageYear, true)
	status := enum(errs, "status", req.Status, model.FundStatusActive, ValidFundStatus)

	if size != nil && deployed != nil && deployed.GreaterThan(*size) {
		errs["deployedCapital"] = "deployedCapital must not exceed size"
	}

	if err := result(errs); err != nil {
		return model.FundInsert{}, err
	}

	return model.FundInsert{
		Name:            name,
		Size:            *size,
		DeployedCapital: deref(deployed),
		ManagementFee:   *fee,
		CarryPercentage: *carry,
		VintageYear:     *vintage,
		Status:          status,
	}, nil
}

// ValidateUpdateFund validates a partial fund update.
// All fields are optional, but at least one must be provided and each
// provided field must meet the same constraints as on create.
func ValidateUpdateFund(req request.UpdateFundRequest) (model.FundUpdate, error) {
	errs := make(map[string]string)
	var upd model.FundUpdate

	if req.Name != nil {
		name := requiredString(errs, "name", *req.Name, 100)
		upd.Name = &name
	}
	if req.Size.Set {
		upd.Size = money(errs, "size", req.Size, true, true)
	}
	if req.ManagementFee.Set {
		upd.ManagementFee = fraction(errs, "managementFee", req.ManagementFee, true)
	}
	if req.CarryPercentage.Set {
		upd.CarryPercentage = fraction(errs, "carryPercentage", req.CarryPercentage, true)
	}
	if req.Status != nil {
		if strings.TrimSpace(*req.Status) == "" {
			errs["status"] = "status is required"
		} else {
			status := enum(errs, "status", *req.Status, "", ValidFundStatus)
			upd.Status = &status
		}
	}

	if len(errs) == 0 && upd.Name == nil && upd.Size == nil && upd.ManagementFee == nil &&
		upd.CarryPercentage == nil && upd.Status == nil {
		errs["body"] = "at least one field must be provided"
	}

	if err := result(errs); err != nil {
		return model.FundUpdate{}, err
	}
	return upd, nil
}

// ValidateCreateSnapshot validates a manually supplied metrics snapshot.
// The metric date defaults to today when omitted.
func ValidateCreateSnapshot(fundID int64, req request.CreateSnapshotRequest) (model.FundMetricsInsert, error) {
	errs := make(map[string]string)

	metricDate := date(errs, "metricDate", req.MetricDate, false)
	total := money(errs, "totalValue", req.TotalValue, true, false)
	irr := rate(errs, "irr", req.IRR)
	multiple := ratio(errs, "multiple", req.Multiple)
	dpi := ratio(errs, "dpi", req.DPI)
	tvpi := ratio(errs, "tvpi", req.TVPI)

	if err := result(errs); err != nil {
		return model.FundMetricsInsert{}, err
	}

	return model.FundMetricsInsert{
		FundID:     fundID,
		MetricDate: metricDate,
		TotalValue: *total,
		IRR:        irr,
		Multiple:   multiple,
		DPI:        dpi,
		TVPI:       tvpi,
	}, nil
}

// ValidReportFormat contains the supported report output formats.
var ValidReportFormat = map[string]bool{
	"json": true, "csv": true, "markdown": true, "html": true,
}

// ValidateGenerateReport validates a report request. Template and period
// are resolved by the report service; format defaults to json.
func ValidateGenerateReport(req request.GenerateReportRequest) (request.GenerateReportRequest, error) {
	errs := make(map[string]string)

	out := request.GenerateReportRequest{
		Template: strings.ToLower(requiredString(errs, "template", req.Template, 50)),
		Period:   strings.ToLower(requiredString(errs, "period", req.Period, 20)),
		Format:   enum(errs, "format", req.Format, "json", ValidReportFormat),
		Notes:    optionalString(errs, "notes", req.Notes, 2000),
	}

	if err := result(errs); err != nil {
		return request.GenerateReportRequest{}, err
	}
	return out, nil
}
