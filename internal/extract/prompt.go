package extract

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/pontos/internal/catalog"
	"github.com/calvinalkan/pontos/internal/period"
)

// TextContent frames the literal contents of a textual file.
func TextContent(fileName, text string) string {
	return fmt.Sprintf("Conteúdo do arquivo %s:\n\n%s", fileName, text)
}

// TextPrompt is the instruction sent with textual files. It lists the
// catalog ids since the text usually names tasks loosely.
func TextPrompt() string {
	var b strings.Builder

	b.WriteString("Analise o texto abaixo extraído de um arquivo e organize os dados de produtividade.\n\n")
	b.WriteString("Informações a extrair:\n")
	b.WriteString("1. Nome do Servidor.\n")
	fmt.Fprintf(&b, "2. Mês (sigla: %s) e Ano.\n", monthCodes())
	b.WriteString("3. Lista de atividades e quantidades.\n\n")
	b.WriteString("Mapeie as atividades para estes IDs:\n")

	for _, task := range catalog.Tasks() {
		fmt.Fprintf(&b, "%d: %s\n", task.ID, task.Name)
	}

	b.WriteString("\nRetorne APENAS um JSON no formato:\n")
	b.WriteString(`{"serverName": "...", "month": "...", "year": 2026, "data": [{"taskId": ID, "quantity": QTD}]}`)

	return b.String()
}

// BinaryPrompt is the instruction sent with binary documents. Documents use
// their own task labels, so the label to id table is part of the prompt.
func BinaryPrompt() string {
	var b strings.Builder

	b.WriteString("Você é um assistente especializado em extrair dados de relatórios de produtividade jurídica ")
	b.WriteString("(Relatório Sintético de Teletrabalho).\n\n")
	b.WriteString("INSTRUÇÕES DE EXTRAÇÃO:\n")
	b.WriteString(`1. NOME DO SERVIDOR: Localizado no cabeçalho (ex: "Nome do Servidor: FULANO DE TAL").` + "\n")
	fmt.Fprintf(&b, `2. PERÍODO: Identifique o mês e ano (ex: "Data Inicial: 01/02/2026" indica Fevereiro de 2026). Use siglas: %s.`+"\n", monthCodes())
	b.WriteString("3. TABELA DE ATIVIDADES: Extraia as tarefas e suas quantidades (Qtde).\n\n")
	b.WriteString("MAPEAMENTO OBRIGATÓRIO (Mapeie o nome do documento para o nosso ID):\n")

	for _, l := range catalog.DocumentLabels() {
		fmt.Fprintf(&b, "- %q -> ID %d\n", l.Label, l.TaskID)
	}

	b.WriteString("\nFORMATO DE SAÍDA (JSON):\n")
	b.WriteString("{\n")
	b.WriteString(`  "serverName": "Nome",` + "\n")
	b.WriteString(`  "month": "sigla",` + "\n")
	b.WriteString(`  "year": 2026,` + "\n")
	b.WriteString(`  "data": [` + "\n")
	b.WriteString(`    {"taskId": ID_NUMERICO, "quantity": QTD_NUMERICA}` + "\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")
	b.WriteString("Atenção: Ignore tarefas com quantidade zero. Retorne APENAS o JSON.")

	return b.String()
}

func monthCodes() string {
	codes := make([]string, 0, 12)
	for _, m := range period.Months() {
		codes = append(codes, string(m))
	}

	return strings.Join(codes, ", ")
}
