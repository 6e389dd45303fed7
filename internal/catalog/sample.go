package catalog

import "github.com/lanort/pedidos/pkg/sheetapi"

// Demo data installed by WithSampleFallback.
var (
	sampleProducts = []sheetapi.Record{
		{"Código": "LN001", "Marca": "LANORT", "Descrição": "Detergente neutro 500ml", "Código de Barra": "7890000000017", "Preço": "4,59", "Estoque": 48},
		{"Código": "LN002", "Marca": "LANORT", "Descrição": "Desinfetante lavanda 2L", "Código de Barra": "7890000000024", "Preço": "12,90", "Estoque": 20},
		{"Código": "AC200", "Marca": "ACME", "Descrição": "Álcool gel 200ml", "Código de Barra": "7890000000031", "Preço": "7,25", "Estoque": 5},
		{"Código": "AC500", "Marca": "ACME", "Descrição": "Álcool gel 500ml", "Código de Barra": "7890000000048", "Preço": "13,40", "Estoque": 0},
	}
	sampleUsers = []sheetapi.Record{
		{"Cód. Parceiro": "1001", "Nome Parceiro": "Mercado Central"},
		{"Cód. Parceiro": "1002", "Nome Parceiro": "Farmácia Boa Vida"},
	}
	samplePaymentTerms = []sheetapi.Record{
		{"Tipo de Negociação": "AV", "Descrição": "À vista"},
		{"Tipo de Negociação": "30D", "Descrição": "30 dias"},
	}
)
