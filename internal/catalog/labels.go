package catalog

// DocumentLabel maps a task label as printed in the court's "Relatório
// Sintético de Teletrabalho" to a catalog id.
//
// The report numbers its rows with its own codes, which do not always match
// our ids: "11-Sentença" is id 10 and "29-Planilha de Cálculos" is id 292.
type DocumentLabel struct {
	Label  string
	TaskID int
}

var documentLabels = []DocumentLabel{
	{"01-Despachos", 1},
	{"02-Ata de Audiência", 2},
	{"03-Decisão Recurso", 3},
	{"04-Decisão", 4},
	{"05-Sentença IDPJ", 5},
	{"06-Sentença com mérito", 6},
	{"07-Sentença sem mérito", 7},
	{"08-Sentença ED", 8},
	{"09-Sentença EE", 9},
	{"11-Sentença", 10},
	{"13-Mandado", 13},
	{"14-Intimação", 14},
	{"15-Alvará", 15},
	{"16-Carta Precatória", 16},
	{"17-Edital", 17},
	{"18-Notificação", 18},
	{"19-Ofício", 19},
	{"20-Precatório", 20},
	{"21-RPV", 21},
	{"22-Perícias", 22},
	{"23-Certidão Crédito", 23},
	{"24-Sisbajud", 24},
	{"26-INFOJUD", 26},
	{"27-INFOSEG", 27},
	{"28-RENAJUD", 28},
	{"29-Planilha de Cálculos", 292},
	{"30-Atualização de Cálculos", 30},
	{"31-Planilha de Cálculos PjeCalc", 31},
	{"32-Documento Diverso", 32},
	{"33-Certidão", 33},
	{"37-Mudança Fase", 37},
	{"38-Arquivamento", 38},
	{"39-Pagamentos", 39},
	{"40-Sobrestament/Dessobestamento", 40},
	{"41-BNDT", 41},
	{"42-Mudança classe processual", 42},
	{"43-Audiência", 43},
	{"44-Conclusão", 44},
	{"45-Desarquivamento", 45},
	{"48-Retificação", 48},
	{"49-Escaninho", 49},
}

// DocumentLabels returns the label table in report order.
func DocumentLabels() []DocumentLabel {
	out := make([]DocumentLabel, len(documentLabels))
	copy(out, documentLabels)

	return out
}
