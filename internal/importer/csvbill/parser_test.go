package csvbill_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/MrJamesThe3rd/ledger/internal/importer/csvbill"
	"github.com/MrJamesThe3rd/ledger/internal/record"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

const wechatBill = `微信支付账单明细,,,,,,,,
微信昵称：[someone],,,,,,,,
起始时间：[2024-03-01 00:00:00] 终止时间：[2024-03-31 23:59:59],,,,,,,,
导出类型：[全部],,,,,,,,
,,,,,,,,
----------------------微信支付账单明细列表--------------------,,,,,,,,
交易时间,交易类型,交易对方,商品,收/支,金额(元),支付方式,当前状态,交易单号
2024-03-15 12:30:01,商户消费,瑞幸咖啡,生椰拿铁,支出,¥15.90,零钱,支付成功,4200001	
2024-03-14 09:00:00,转账,张三,/,收入,¥200.00,/,已存入零钱,1000050	
2024-03-13 18:00:00,商户消费,某商店,退货商品,支出,¥30.00,零钱,已全额退款,4200002	
2024-03-12 08:00:00,零钱提现,招商银行,/,/,¥100.00,零钱,提现已到账,4200003	
`

func TestParser_WeChat(t *testing.T) {
	res, err := csvbill.NewParser().Parse(strings.NewReader(wechatBill))
	require.NoError(t, err)

	assert.Equal(t, csvbill.FormatWeChat, res.Format)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, record.CreateParams{
		Type:          record.TypeExpense,
		Amount:        1590,
		Date:          date(2024, 3, 15),
		PaymentMethod: "WeChat",
		Note:          "瑞幸咖啡 生椰拿铁",
	}, res.Entries[0])

	assert.Equal(t, record.TypeIncome, res.Entries[1].Type)
	assert.Equal(t, int64(20000), res.Entries[1].Amount)
	assert.Equal(t, "张三", res.Entries[1].Note)
}

const alipayBill = `支付宝交易记录明细查询
账号:[someone@example.com]
起始日期:[2024-03-01 00:00:00]    终止日期:[2024-04-01 00:00:00]
---------------------------------交易记录明细列表------------------------------------
交易时间,交易分类,交易对方,对方账号,商品说明,收/支,金额,收/付款方式,交易状态
2024-03-20 19:45:10,餐饮美食,肯德基,kfc***@alipay.com,早餐套餐,支出,32.50,花呗,交易成功
2024-03-21 10:00:00,退款,某商家,/,退款,不计收支,10.00,余额,退款成功
2024-03-22 10:00:00,日用百货,超市,/,购物,支出,1088.00,余额宝,交易关闭
------------------------------------------------------------------------------------
共3笔记录
`

func TestParser_AlipayGB18030(t *testing.T) {
	encoded, err := simplifiedchinese.GB18030.NewEncoder().String(alipayBill)
	require.NoError(t, err)

	res, err := csvbill.NewParser().Parse(bytes.NewReader([]byte(encoded)))
	require.NoError(t, err)

	assert.Equal(t, csvbill.FormatAlipay, res.Format)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Entries, 1)

	assert.Equal(t, record.CreateParams{
		Type:          record.TypeExpense,
		Amount:        3250,
		Date:          date(2024, 3, 20),
		PaymentMethod: "Alipay",
		Category:      "餐饮美食",
		Note:          "肯德基 早餐套餐",
	}, res.Entries[0])
}

func TestParser_Ledger(t *testing.T) {
	csv := "\ufeffID,Date,Type,Amount,Payment Method,Category,Note\n" +
		"1,2024-03-15,expense,12.50,Cash,food,lunch\n" +
		"2,2024-03-16,income,\"1,000.00\",WeChat,,salary\n"

	res, err := csvbill.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, csvbill.FormatLedger, res.Format)
	require.Len(t, res.Entries, 2)

	assert.Equal(t, record.CreateParams{
		Type:          record.TypeExpense,
		Amount:        1250,
		Date:          date(2024, 3, 15),
		PaymentMethod: "Cash",
		Category:      "food",
		Note:          "lunch",
	}, res.Entries[0])

	assert.Equal(t, int64(100000), res.Entries[1].Amount)
	assert.Empty(t, res.Entries[1].Category)
}

func TestParser_Errors(t *testing.T) {
	type testCase struct {
		name    string
		content string
		wantErr string
	}

	tests := []testCase{
		{
			name:    "UnknownFormat",
			content: "a,b,c\n1,2,3\n",
			wantErr: "no matching bill format",
		},
		{
			name:    "Empty",
			content: "",
			wantErr: "no matching bill format",
		},
		{
			name:    "BadAmount",
			content: "ID,Date,Type,Amount,Payment Method,Category,Note\n1,2024-03-15,expense,abc,Cash,,\n",
			wantErr: "row 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := csvbill.NewParser().Parse(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
