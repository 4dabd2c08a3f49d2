// Package ofx turns OFX/QFX bank and credit card statements into ledger
// import drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/meu-bolso/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var descriptionPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"COMPRA CARTAO ",
	"COMPRA CARTÃO ",
	"COMPRA NO DEBITO ",
	"COMPRA NO DÉBITO ",
}

var genericDescriptions = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"PAGAMENTO":       true,
	"COMPRA":          true,
	"TRANSFERENCIA":   true,
	"TRANSFERÊNCIA":   true,
}

// Statement is the result of parsing one OFX file.
type Statement struct {
	Accounts []string
	Drafts   []model.TransactionInput
	// Skipped counts zero-amount entries that cannot become transactions.
	Skipped int
}

// Parser parses OFX/QFX files.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX statement. Debits become expenses filed under
// the fallback expense category and credits become incomes under the
// fallback income category; the caller may recategorize them afterwards.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	stmt := &Statement{}
	accounts := make(map[string]bool)
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		s, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		if s.BankAcctFrom.AcctID != "" {
			accounts[string(s.BankAcctFrom.AcctID)] = true
		}
		if s.BankTranList != nil {
			p.appendTransactions(stmt, s.BankTranList.Transactions)
		}
	}

	for _, msg := range resp.CreditCard {
		s, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++
		if s.CCAcctFrom.AcctID != "" {
			accounts[string(s.CCAcctFrom.AcctID)] = true
		}
		if s.BankTranList != nil {
			p.appendTransactions(stmt, s.BankTranList.Transactions)
		}
	}

	for acct := range accounts {
		stmt.Accounts = append(stmt.Accounts, acct)
	}
	sort.Strings(stmt.Accounts)

	slog.Debug("Parsed OFX file",
		"drafts", len(stmt.Drafts),
		"skipped", stmt.Skipped,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return stmt, nil
}

func (p *Parser) appendTransactions(stmt *Statement, txns []ofxgo.Transaction) {
	for _, ofxTx := range txns {
		draft, ok := p.convertTransaction(ofxTx)
		if !ok {
			stmt.Skipped++
			slog.Warn("Skipping zero-amount OFX entry", "fitid", string(ofxTx.FiTID))
			continue
		}
		stmt.Drafts = append(stmt.Drafts, draft)
	}
}

// convertTransaction maps one OFX entry to a draft. OFX signs debits negative.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction) (model.TransactionInput, bool) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		return model.TransactionInput{}, false
	}

	draft := model.TransactionInput{
		Date:        postedDate(ofxTx),
		Type:        model.TypeIncome,
		CategoryID:  model.FallbackIncomeCategoryID,
		Description: p.extractDescription(ofxTx),
		ExternalID:  string(ofxTx.FiTID),
		Amount:      amount.Abs(),
	}
	if amount.IsNegative() {
		draft.Type = model.TypeExpense
		draft.CategoryID = model.FallbackExpenseCategoryID
	}
	return draft, true
}

func postedDate(tx ofxgo.Transaction) time.Time {
	if !tx.DtPosted.IsZero() {
		return tx.DtPosted.Time
	}
	if tx.DtUser != nil {
		return tx.DtUser.Time
	}
	return time.Time{}
}

// extractDescription picks the cleanest human-readable label available.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && (name == "" || genericDescriptions[strings.ToUpper(name)]) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range descriptionPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " or "DD/MM " stamps.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}
