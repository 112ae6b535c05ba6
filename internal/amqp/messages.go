package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Report kinds an export can request.
const (
	ReportFinancial = "financial"
	ReportExpenses  = "expenses"
	ReportPartners  = "partners"
)

// ReportExportMessage asks the worker to assemble a report for the
// given range and append it to the spreadsheet. It carries only the
// parameters; the worker fetches the data itself so exports always
// reflect current records.
type ReportExportMessage struct {
	Report      string    `json:"report"`
	Start       string    `json:"start"` // YYYY-MM-DD, empty means open
	End         string    `json:"end"`   // YYYY-MM-DD, empty means today
	RequestedAt time.Time `json:"requested_at"`
}

func NewReportExportMessage(report, start, end string) *ReportExportMessage {
	return &ReportExportMessage{
		Report:      report,
		Start:       start,
		End:         end,
		RequestedAt: time.Now(),
	}
}

func (m *ReportExportMessage) Validate() error {
	switch m.Report {
	case ReportFinancial, ReportExpenses, ReportPartners:
		return nil
	}
	return errors.New("unknown report kind: " + m.Report)
}

func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
