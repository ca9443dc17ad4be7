// Package catalog holds the fixed registry of trackable task types.
//
// The catalog is static data loaded once at process start. Ids are stable but
// not contiguous (there is no 12, 25, 29, 34-36, 46 or 47) and 291/292 sit
// between 28 and 30 in display order. Both properties are intentional and
// must not be "fixed".
package catalog

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Task is one trackable task type.
type Task struct {
	ID        int
	Name      string
	UnitValue decimal.Decimal
}

func task(id int, name, unit string) Task {
	return Task{ID: id, Name: name, UnitValue: decimal.RequireFromString(unit)}
}

// tasks is in display order.
var tasks = []Task{
	task(1, "Despachos", "0.5"),
	task(2, "Ata de Audiência", "0.7"),
	task(3, "Decisão Recurso", "0.4"),
	task(4, "Decisão", "0.7"),
	task(5, "Sentença - IDPJ", "1.4"),
	task(6, "Sentença com mérito", "1.1"),
	task(7, "Sentença sem mérito", "0.7"),
	task(8, "Sentença ED", "0.7"),
	task(9, "Sentença EE / Impugnação à Sentença de Liquidação", "1.4"),
	task(10, "Sentença", "0.7"),
	task(11, "Sentença Parcial", "0.7"),
	task(13, "Mandado", "0.5"),
	task(14, "Intimação", "0.2"),
	task(15, "Alvará", "0.5"),
	task(16, "Carta Precatória", "0.5"),
	task(17, "Edital", "0.2"),
	task(18, "Notificação", "0.2"),
	task(19, "Ofício", "0.5"),
	task(20, "Precatório", "0.7"),
	task(21, "RPV", "0.5"),
	task(22, "Perícias - Requisição de Honorários", "0.7"),
	task(23, "Certidão de Crédito", "0.7"),
	task(24, "SISBAJUD", "0.5"),
	task(26, "INFOJUD", "0.7"),
	task(27, "INFOSEG", "0.7"),
	task(28, "RENAJUD", "0.4"),
	task(291, "Ferramenta - Outras (especificar no registro detalhado)", "0.7"),
	task(292, "Planilha de Cálculos - Sentenças", "1.8"),
	task(30, "Atualização de Cálculos", "0.7"),
	task(31, "Planilha de Cálculos PjeCalc", "1.8"),
	task(32, "Documentos diversos", "0.1"),
	task(33, "Certidão", "0.2"),
	task(37, "Mudança de fase", "0.4"),
	task(38, "Arquivamento", "0.4"),
	task(39, "Pagamentos", "0.2"),
	task(40, "Sobrestamento/Dessobrestamento", "0.2"),
	task(41, "BNDT", "0.1"),
	task(42, "Mudança de classe processual", "0.1"),
	task(43, "Audiência (marcação ou cancelamento)", "0.1"),
	task(44, "Conclusão", "0.1"),
	task(45, "Desarquivamento", "0.1"),
	task(48, "Retificação", "0.1"),
	task(49, "Escaninho (Baixa de petição)", "0.1"),
}

var byID = func() map[int]Task {
	m := make(map[int]Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}

	return m
}()

// Tasks returns the catalog in display order. The returned slice is a copy.
func Tasks() []Task {
	return slices.Clone(tasks)
}

// Lookup returns the task with the given id.
func Lookup(id int) (Task, bool) {
	t, ok := byID[id]

	return t, ok
}

// Has reports whether id is a catalog task.
func Has(id int) bool {
	_, ok := byID[id]

	return ok
}

// Len returns the number of catalog tasks.
func Len() int {
	return len(tasks)
}
