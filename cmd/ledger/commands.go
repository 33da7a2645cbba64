package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/ledger/internal/auth"
	"github.com/MrJamesThe3rd/ledger/internal/budget"
	"github.com/MrJamesThe3rd/ledger/internal/export"
	"github.com/MrJamesThe3rd/ledger/internal/money"
	"github.com/MrJamesThe3rd/ledger/internal/record"
	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

// defaultRecentLimit and defaultSearchLimit cap list-records and search output.
const (
	defaultRecentLimit = 20
	defaultSearchLimit = 200
)

var commands = map[string]command{
	"add-category":        {"Add a category (no-op if it exists)", addCategory},
	"list-categories":     {"List categories", listCategories},
	"delete-category":     {"Delete a category; its records become uncategorized", deleteCategory},
	"add-method":          {"Add a payment method (no-op if it exists)", addMethod},
	"list-methods":        {"List payment methods", listMethods},
	"delete-method":       {"Delete an unused payment method", deleteMethod},
	"add-record":          {"Add an income or expense record", addRecord},
	"list-records":        {"List the most recent records", listRecords},
	"update-record":       {"Change fields of a record", updateRecord},
	"delete-record":       {"Delete a record", deleteRecord},
	"search":              {"Search records by amount, date, note and type", searchRecords},
	"set-budget":          {"Set the total budget of a month", setBudget},
	"set-category-budget": {"Set a category's budget within a month", setCategoryBudget},
	"budget-progress":     {"Show spending against a month's budget", budgetProgress},
	"stats":               {"Aggregate records by time, category or method", showStats},
	"import":              {"Import a ledger, WeChat or Alipay CSV bill", importBill},
	"export":              {"Export records as CSV or XLSX", exportRecords},
	"learn-rule":          {"Map a note pattern to a category", learnRule},
	"list-rules":          {"List category rules", listRules},
	"token":               {"Issue an API token", issueToken},
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)

	return fs
}

// positional splits a leading non-flag argument from the flags that follow it.
func positional(args []string, what string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, fmt.Errorf("%w: missing %s", errUsage, what)
	}

	return args[0], args[1:], nil
}

func positionalID(args []string) (int64, []string, error) {
	s, rest, err := positional(args, "id")
	if err != nil {
		return 0, nil, err
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid id %q", errUsage, s)
	}

	return id, rest, nil
}

// setFlags reports which flags were given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	return set
}

func formatCents(cents int64) string {
	return money.Format(cents)
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := record.ParseDate(s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func optionalCents(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}

	v, err := money.ParseCents(s)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// Categories and payment methods

func addCategory(ctx context.Context, e *env, args []string) error {
	name, _, err := positional(args, "name")
	if err != nil {
		return err
	}

	c, err := e.app.Categories.GetOrCreate(ctx, name)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Category added: %s (id=%d)\n", c.Name, c.ID)

	return err
}

func listCategories(ctx context.Context, e *env, _ []string) error {
	categories, err := e.app.Categories.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{strconv.FormatInt(c.ID, 10), c.Name})
	}

	return writeTable(e.out, []string{"ID", "Name"}, rows)
}

func deleteCategory(ctx context.Context, e *env, args []string) error {
	id, _, err := positionalID(args)
	if err != nil {
		return err
	}

	if err := e.app.Categories.Delete(ctx, id); err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, "Category deleted")

	return err
}

func addMethod(ctx context.Context, e *env, args []string) error {
	name, _, err := positional(args, "name")
	if err != nil {
		return err
	}

	m, err := e.app.Methods.GetOrCreate(ctx, name)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Payment method added: %s (id=%d)\n", m.Name, m.ID)

	return err
}

func listMethods(ctx context.Context, e *env, _ []string) error {
	methods, err := e.app.Methods.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(methods))
	for _, m := range methods {
		rows = append(rows, []string{strconv.FormatInt(m.ID, 10), m.Name})
	}

	return writeTable(e.out, []string{"ID", "Name"}, rows)
}

func deleteMethod(ctx context.Context, e *env, args []string) error {
	id, _, err := positionalID(args)
	if err != nil {
		return err
	}

	if err := e.app.Methods.Delete(ctx, id); err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, "Payment method deleted")

	return err
}

// Records

func addRecord(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("add-record", e)

	var (
		typ      = fs.String("type", "", "income or expense (required)")
		amount   = fs.String("amount", "", "amount, e.g. 12.50 (required)")
		date     = fs.String("date", time.Now().Format(time.DateOnly), "date as YYYY-MM-DD")
		method   = fs.String("method", "", "payment method name (default from config)")
		category = fs.String("category", "", "category name")
		note     = fs.String("note", "", "free text note")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := record.ParseType(*typ)
	if err != nil {
		return err
	}

	cents, err := money.ParseCents(*amount)
	if err != nil {
		return err
	}

	d, err := record.ParseDate(*date)
	if err != nil {
		return err
	}

	r, err := e.app.Records.Add(ctx, record.CreateParams{
		Type:          t,
		Amount:        cents,
		Date:          d,
		PaymentMethod: *method,
		Category:      *category,
		Note:          *note,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Record added: id=%d, %s, %s, %s\n",
		r.ID, r.Type, formatCents(r.Amount), r.Date.Format(time.DateOnly))

	return err
}

func listRecords(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("list-records", e)
	limit := fs.Int("limit", defaultRecentLimit, "number of records to show")

	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := e.app.Records.ListRecent(ctx, *limit)
	if err != nil {
		return err
	}

	return writeRecords(ctx, e, records)
}

func updateRecord(ctx context.Context, e *env, args []string) error {
	id, rest, err := positionalID(args)
	if err != nil {
		return err
	}

	fs := newFlagSet("update-record", e)

	var (
		typ      = fs.String("type", "", "income or expense")
		amount   = fs.String("amount", "", "amount, e.g. 12.50")
		date     = fs.String("date", "", "date as YYYY-MM-DD")
		method   = fs.String("method", "", "payment method name")
		category = fs.String("category", "", "category name; empty makes the record uncategorized")
		note     = fs.String("note", "", "free text note")
	)

	if err := fs.Parse(rest); err != nil {
		return err
	}

	set := setFlags(fs)

	var params record.UpdateParams

	if set["type"] {
		t, err := record.ParseType(*typ)
		if err != nil {
			return err
		}

		params.Type = &t
	}

	if set["amount"] {
		if params.Amount, err = optionalCents(*amount); err != nil {
			return err
		}

		if params.Amount == nil {
			return fmt.Errorf("%w: empty", money.ErrInvalidAmount)
		}
	}

	if set["date"] {
		d, err := record.ParseDate(*date)
		if err != nil {
			return err
		}

		params.Date = &d
	}

	if set["method"] {
		params.PaymentMethod = method
	}

	if set["category"] {
		if strings.TrimSpace(*category) == "" {
			params.ClearCategory = true
		} else {
			params.Category = category
		}
	}

	if set["note"] {
		params.Note = note
	}

	if err := e.app.Records.Update(ctx, id, params); err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, "Record updated")

	return err
}

func deleteRecord(ctx context.Context, e *env, args []string) error {
	id, _, err := positionalID(args)
	if err != nil {
		return err
	}

	if err := e.app.Records.Delete(ctx, id); err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, "Record deleted")

	return err
}

func searchRecords(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("search", e)

	var (
		minAmount  = fs.String("min", "", "minimum amount")
		maxAmount  = fs.String("max", "", "maximum amount")
		start      = fs.String("start", "", "first date, YYYY-MM-DD")
		end        = fs.String("end", "", "last date, YYYY-MM-DD")
		keyword    = fs.String("keyword", "", "text contained in the note")
		typ        = fs.String("type", "", "income or expense")
		categoryID = fs.Int64("category-id", 0, "category id")
		methodID   = fs.Int64("method-id", 0, "payment method id")
		limit      = fs.Int("limit", defaultSearchLimit, "maximum results; 0 for no cap")
		order      = fs.String("order", string(record.OrderDateDesc), "date_desc, date_asc, amount_desc or amount_asc")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := record.Filter{
		Keyword: *keyword,
		Limit:   *limit,
		Order:   record.Order(*order),
	}

	var err error

	if filter.MinAmount, err = optionalCents(*minAmount); err != nil {
		return err
	}

	if filter.MaxAmount, err = optionalCents(*maxAmount); err != nil {
		return err
	}

	if filter.Start, err = optionalDate(*start); err != nil {
		return err
	}

	if filter.End, err = optionalDate(*end); err != nil {
		return err
	}

	if *typ != "" {
		t, err := record.ParseType(*typ)
		if err != nil {
			return err
		}

		filter.Type = &t
	}

	set := setFlags(fs)
	if set["category-id"] {
		filter.CategoryID = categoryID
	}

	if set["method-id"] {
		filter.PaymentMethodID = methodID
	}

	records, err := e.app.Records.Search(ctx, filter)
	if err != nil {
		return err
	}

	return writeRecords(ctx, e, records)
}

// Budgets

func parseMonthFlag(s string) (budget.Month, error) {
	if s == "" {
		return budget.MonthOf(time.Now()), nil
	}

	return budget.ParseMonth(s)
}

func setBudget(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("set-budget", e)

	var (
		month     = fs.String("month", "", "month as YYYY-MM (default current)")
		total     = fs.String("total", "", "total budget (required)")
		threshold = fs.Float64("threshold", e.app.DefaultThreshold, "alert ratio between 0 and 1")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := parseMonthFlag(*month)
	if err != nil {
		return err
	}

	cents, err := money.ParseCents(*total)
	if err != nil {
		return err
	}

	b, err := e.app.Budgets.SetBudget(ctx, m, cents, *threshold)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Budget updated: %s total=%s threshold=%.2f\n", b.Month, formatCents(b.Total), b.Threshold)

	return err
}

func setCategoryBudget(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("set-category-budget", e)

	var (
		month    = fs.String("month", "", "month as YYYY-MM (default current)")
		category = fs.String("category", "", "category name (required)")
		amount   = fs.String("amount", "", "amount budgeted (required)")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := parseMonthFlag(*month)
	if err != nil {
		return err
	}

	cents, err := money.ParseCents(*amount)
	if err != nil {
		return err
	}

	if _, err := e.app.Budgets.SetCategoryBudget(ctx, m, *category, cents); err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.out, "Category budget set")

	return err
}

func budgetProgress(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("budget-progress", e)
	month := fs.String("month", "", "month as YYYY-MM (default current)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := parseMonthFlag(*month)
	if err != nil {
		return err
	}

	p, err := e.app.Budgets.Progress(ctx, m)
	if err != nil {
		return err
	}

	err = writeTable(e.out,
		[]string{"Month", "Budget", "Spent", "Usage", "Threshold"},
		[][]string{{
			string(p.Month),
			formatCents(p.Total),
			formatCents(p.Spent),
			fmt.Sprintf("%.2f%%", p.UsageRatio*100),
			fmt.Sprintf("%.0f%%", p.Threshold*100),
		}},
	)
	if err != nil {
		return err
	}

	if p.Warning() {
		if _, err := fmt.Fprintln(e.out, warnStyle.Render("[warning] budget threshold reached")); err != nil {
			return err
		}
	}

	if len(p.Categories) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		rows = append(rows, []string{c.Name, formatCents(c.Budgeted), formatCents(c.Spent)})
	}

	if _, err := fmt.Fprintln(e.out, "\nCategory budgets:"); err != nil {
		return err
	}

	return writeTable(e.out, []string{"Category", "Budget", "Spent"}, rows)
}

// Stats

func showStats(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("stats", e)

	var (
		dimension = fs.String("dimension", "", "time, category or method (required)")
		start     = fs.String("start", "", "first date, YYYY-MM-DD (required)")
		end       = fs.String("end", "", "last date, YYYY-MM-DD (required)")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	dim, err := stats.ParseDimension(*dimension)
	if err != nil {
		return err
	}

	from, err := record.ParseDate(*start)
	if err != nil {
		return err
	}

	to, err := record.ParseDate(*end)
	if err != nil {
		return err
	}

	res, err := e.app.Stats.Compute(ctx, dim, from, to)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(res.Items))
	for _, item := range res.Items {
		rows = append(rows, []string{item.Label, formatCents(item.Amount)})
	}

	if err := writeTable(e.out, []string{"Item", "Amount (expense +, income -)"}, rows); err != nil {
		return err
	}

	return writeTable(e.out,
		[]string{"Total income", "Total expense"},
		[][]string{{formatCents(res.TotalIncome), formatCents(res.TotalExpense)}},
	)
}

// Import and export

func importBill(ctx context.Context, e *env, args []string) error {
	path, rest, err := positional(args, "file")
	if err != nil {
		return err
	}

	fs := newFlagSet("import", e)
	preview := fs.Bool("preview", false, "parse and show entries without saving")

	if err := fs.Parse(rest); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening bill: %w", err)
	}
	defer f.Close()

	if *preview {
		parsed, suggested, err := e.app.Importer.Preview(ctx, f)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(parsed.Entries))
		for _, p := range parsed.Entries {
			rows = append(rows, []string{
				p.Date.Format(time.DateOnly), string(p.Type), formatCents(p.Amount), p.PaymentMethod, p.Category, p.Note,
			})
		}

		if err := writeTable(e.out, []string{"Date", "Type", "Amount", "Method", "Category", "Note"}, rows); err != nil {
			return err
		}

		_, err = fmt.Fprintf(e.out, "%s bill: %d entries, %d skipped, %d categorized by rules\n",
			parsed.Format, len(parsed.Entries), parsed.Skipped, suggested)

		return err
	}

	res, err := e.app.Importer.Import(ctx, f)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Imported %d record(s) from %s bill (%d skipped, %d categorized by rules)\n",
		len(res.Imported), res.Format, res.Skipped, res.Suggested)

	return err
}

func exportRecords(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("export", e)

	var (
		formatName = fs.String("format", "", "csv or xlsx (default from the output extension, else csv)")
		out        = fs.String("out", "-", "output file; - writes to stdout")
		start      = fs.String("start", "", "first date, YYYY-MM-DD")
		end        = fs.String("end", "", "last date, YYYY-MM-DD")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	name := *formatName
	if name == "" {
		name = string(export.FormatCSV)

		if ext := filepath.Ext(*out); ext != "" && *out != "-" {
			name = ext
		}
	}

	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}

	filter := record.Filter{}

	if filter.Start, err = optionalDate(*start); err != nil {
		return err
	}

	if filter.End, err = optionalDate(*end); err != nil {
		return err
	}

	if *out == "-" {
		_, err := e.app.Exporter.Export(ctx, e.out, format, filter)
		return err
	}

	summary, err := exportToFile(ctx, e, *out, format, filter)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.errOut, "Exported to %s: %s\n", *out, summary)

	return err
}

func exportToFile(ctx context.Context, e *env, path string, format export.Format, filter record.Filter) (export.Summary, error) {
	f, err := os.Create(path)
	if err != nil {
		return export.Summary{}, fmt.Errorf("creating export file: %w", err)
	}

	summary, err := e.app.Exporter.Export(ctx, f, format, filter)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(path)
		return export.Summary{}, err
	}

	return summary, nil
}

// Rules

func learnRule(ctx context.Context, e *env, args []string) error {
	fs := newFlagSet("learn-rule", e)

	var (
		pattern  = fs.String("pattern", "", "text to look for in notes (required)")
		category = fs.String("category", "", "category to suggest (required)")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	rule, err := e.app.Rules.Learn(ctx, *pattern, *category)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.out, "Rule saved: %q -> %s\n", rule.Pattern, *category)

	return err
}

func listRules(ctx context.Context, e *env, _ []string) error {
	rules, err := e.app.Rules.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{strconv.FormatInt(r.ID, 10), r.Pattern, r.CategoryName})
	}

	return writeTable(e.out, []string{"ID", "Pattern", "Category"}, rows)
}

// Auth

func issueToken(_ context.Context, e *env, args []string) error {
	fs := newFlagSet("token", e)
	ttl := fs.Duration("ttl", e.cfg.Auth.TokenTTL, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	token, claims, err := auth.Issue(e.cfg.Auth.Secret, *ttl)
	if err != nil {
		if errors.Is(err, auth.ErrNoSecret) {
			return fmt.Errorf("%w: set AUTH_SECRET", err)
		}

		return err
	}

	if _, err := fmt.Fprintln(e.out, token); err != nil {
		return err
	}

	_, err = fmt.Fprintf(e.errOut, "expires %s\n", claims.ExpiresAt.Format(time.RFC3339))

	return err
}
