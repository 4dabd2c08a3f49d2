package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meu-bolso/internal/report"
)

func TestCategoriesCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signup()

	out := env.mustRun("categories", "list")
	assert.Contains(t, out, "Alimentação")
	assert.Contains(t, out, "Salário")

	out = env.mustRun("categories", "add", "Pets", "--type", "despesa")
	assert.Contains(t, out, `Categoria "Pets" criada`)

	out = env.mustRun("categories", "list", "--type", "expense")
	assert.Contains(t, out, "Pets")
	assert.NotContains(t, out, "Salário")

	// The new category is usable right away.
	addTx(t, env, "--amount", "120", "--category", "pets")

	_, err := env.run("", "categories", "add", "  ", "--type", "income")
	assert.Error(t, err)
}

func TestDashboardCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signup()

	out := env.mustRun("dashboard")
	assert.Contains(t, out, "março de 2024")
	assert.Contains(t, out, "Nenhuma despesa no período")

	addTx(t, env, "--type", "income", "--amount", "1000", "--category", "cat8")
	addTx(t, env, "--amount", "50", "--category", "cat1", "--description", "Mercado")
	addTx(t, env, "--amount", "200", "--category", "cat3", "--date", "01/02/2024")

	out = env.mustRun("dashboard", "--period", "month")
	assert.Contains(t, out, "R$ 1.000,00")
	assert.Contains(t, out, "R$ 950,00") // the February rent is out of range
	assert.Contains(t, out, "Alimentação")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "Movimento diário")

	out = env.mustRun("dashboard", "--period", "semana")
	assert.Contains(t, out, "Esta semana: 10/03 a 16/03")
	assert.NotContains(t, out, "Movimento diário")

	_, err := env.run("", "dashboard", "--period", "year")
	assert.Error(t, err)
}

func TestPlanningCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signup()

	addTx(t, env, "--type", "income", "--amount", "1000", "--category", "cat8")
	addTx(t, env, "--amount", "900", "--category", "cat1")

	out := env.mustRun("planning")
	assert.Contains(t, out, "Planejamento: março de 2024")
	assert.Contains(t, out, "10%")
	assert.Contains(t, out, report.GoalMissedMessage)
	assert.Contains(t, out, report.PlanningAdvice[0])

	env.mustRun("tx", "add", "--type", "income", "--amount", "3000", "--category", "cat9")
	out = env.mustRun("planning")
	assert.Contains(t, out, report.GoalMetMessage)
}

const importOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>0341
<ACCTID>12345-6
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301120000[0:GMT]
<DTEND>20240315120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310120000[0:GMT]
<TRNAMT>-25.50
<FITID>MAR10
<NAME>PADARIA REAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240305120000[0:GMT]
<TRNAMT>2500.00
<FITID>MAR05
<NAME>SALARIO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240315120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFXCmd(t *testing.T) {
	env := newTestEnv(t)
	env.signup()

	path := filepath.Join(t.TempDir(), "extrato.ofx")
	require.NoError(t, os.WriteFile(path, []byte(importOFX), 0o600))

	out := env.mustRun("import-ofx", "--dry-run", path)
	assert.Contains(t, out, "2 transações encontradas")
	assert.Contains(t, out, "PADARIA REAL")
	assert.Contains(t, env.mustRun("tx", "list"), "Nenhuma transação encontrada")

	out = env.mustRun("import-ofx", path)
	assert.Contains(t, out, "2 transações importadas, 0 já existentes ignoradas")

	out = env.mustRun("import-ofx", filepath.Join(filepath.Dir(path), "*.ofx"))
	assert.Contains(t, out, "0 transações importadas, 2 já existentes ignoradas")

	out = env.mustRun("tx", "list")
	assert.Contains(t, out, "PADARIA REAL")
	assert.Contains(t, out, "Outras Despesas")
	assert.Contains(t, out, "Outras Receitas")
}

func TestImportOFXCmd_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.signup()

	_, err := env.run("", "import-ofx", filepath.Join(t.TempDir(), "missing-*.ofx"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.ofx")
	require.NoError(t, os.WriteFile(bad, []byte("not ofx"), 0o600))
	_, err = env.run("", "import-ofx", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.ofx")
}
