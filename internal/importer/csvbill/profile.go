package csvbill

import (
	"errors"

	"github.com/MrJamesThe3rd/ledger/internal/record"
)

var ErrUnknownFormat = errors.New("no matching bill format found")

// Profile describes the column layout of one CSV bill format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name      string
	DateCol   string
	TypeCol   string
	AmountCol string
	NoteCols  []string // joined with a space, "/" placeholders dropped

	// Method is fixed for platform exports; MethodCol is read otherwise.
	Method    string
	MethodCol string

	CategoryCol string // optional

	// TypeValues maps the type column's cell to a record type. Rows whose
	// value is missing from the map (transfers, "neutral" rows) are skipped.
	TypeValues map[string]record.Type

	StatusCol  string
	SkipStatus map[string]bool
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.TypeCol, p.AmountCol}
	cols = append(cols, p.NoteCols...)

	if p.MethodCol != "" {
		cols = append(cols, p.MethodCol)
	}

	if p.CategoryCol != "" {
		cols = append(cols, p.CategoryCol)
	}

	if p.StatusCol != "" {
		cols = append(cols, p.StatusCol)
	}

	return cols
}

const (
	FormatLedger = "ledger"
	FormatWeChat = "wechat"
	FormatAlipay = "alipay"
)

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        FormatAlipay,
		DateCol:     "交易时间",
		TypeCol:     "收/支",
		AmountCol:   "金额",
		NoteCols:    []string{"交易对方", "商品说明"},
		Method:      "Alipay",
		CategoryCol: "交易分类",
		TypeValues: map[string]record.Type{
			"支出": record.TypeExpense,
			"收入": record.TypeIncome,
		},
		StatusCol:  "交易状态",
		SkipStatus: map[string]bool{"交易关闭": true},
	},
	{
		Name:      FormatWeChat,
		DateCol:   "交易时间",
		TypeCol:   "收/支",
		AmountCol: "金额(元)",
		NoteCols:  []string{"交易对方", "商品"},
		Method:    "WeChat",
		TypeValues: map[string]record.Type{
			"支出": record.TypeExpense,
			"收入": record.TypeIncome,
		},
		StatusCol:  "当前状态",
		SkipStatus: map[string]bool{"已全额退款": true, "对方已退还": true},
	},
	{
		Name:        FormatLedger,
		DateCol:     "Date",
		TypeCol:     "Type",
		AmountCol:   "Amount",
		NoteCols:    []string{"Note"},
		MethodCol:   "Payment Method",
		CategoryCol: "Category",
		TypeValues: map[string]record.Type{
			"expense": record.TypeExpense,
			"income":  record.TypeIncome,
		},
	},
}

// Formats lists the supported format names in detection order.
func Formats() []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}

	return names
}
