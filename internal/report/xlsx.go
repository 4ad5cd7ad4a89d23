package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var healthSheetHeader = []string{
	"Plan", "Client", "Role", "Stage", "Required", "Converted",
	"Actual", "Match Level", "Needed By", "Health", "Reason",
}

// WriteWorkbook exports role reports and an optional performance summary as
// an XLSX workbook at path.
func WriteWorkbook(path string, reports []*RoleReport, summary *PerformanceSummary) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Plan Health")
	if err != nil {
		return eris.Wrap(err, "report: add health sheet")
	}
	writeRow(sheet, healthSheetHeader...)
	for _, r := range reports {
		for _, row := range r.Stages {
			xr := sheet.AddRow()
			xr.AddCell().SetString(r.PlanName)
			xr.AddCell().SetString(r.Client)
			xr.AddCell().SetString(r.Role)
			xr.AddCell().SetString(row.Target.StageName)
			xr.AddCell().SetInt(row.Target.ProfilesInPipeline)
			xr.AddCell().SetInt(row.Target.ProfilesConverted)
			xr.AddCell().SetInt(row.Actual.ActualCount)
			xr.AddCell().SetString(string(row.Actual.MatchLevel))
			xr.AddCell().SetString(row.Target.NeededByDate.String())
			xr.AddCell().SetString(string(row.Health))
			xr.AddCell().SetString(row.Reason)
		}
	}

	attrition, err := f.AddSheet("Attrition")
	if err != nil {
		return eris.Wrap(err, "report: add attrition sheet")
	}
	writeRow(attrition, "Plan", "Client", "Role", "Exited Total", "Match Level", "Category", "Count")
	for _, r := range reports {
		if r.Exited.Total == 0 {
			continue
		}
		for category, n := range r.Exited.ByCategory {
			xr := attrition.AddRow()
			xr.AddCell().SetString(r.PlanName)
			xr.AddCell().SetString(r.Client)
			xr.AddCell().SetString(r.Role)
			xr.AddCell().SetInt(r.Exited.Total)
			xr.AddCell().SetString(string(r.Exited.MatchLevel))
			xr.AddCell().SetString(category)
			xr.AddCell().SetInt(n)
		}
	}

	if summary != nil {
		s, err := f.AddSheet("Summary")
		if err != nil {
			return eris.Wrap(err, "report: add summary sheet")
		}
		writeRow(s, "Metric", "Value")
		writeMetric(s, "Total Candidates", float64(summary.TotalCandidates))
		writeMetric(s, "Avg Current Wait (days)", summary.AvgCurrentWait)
		writeMetric(s, "Avg Pipeline Time (days)", summary.AvgPipelineDays)
		writeMetric(s, "Staffed", float64(summary.StaffedCount))
		writeMetric(s, "Exited", float64(summary.ExitedCount))
		writeMetric(s, "Success Rate (%)", summary.SuccessRate)
		writeMetric(s, "Attrition Rate (%)", summary.AttritionRate)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells ...string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func writeMetric(sheet *xlsx.Sheet, name string, value float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(name)
	row.AddCell().SetFloat(value)
}
