package ingestion

import (
	"ingestion-service/internal/core/locale"
	"ingestion-service/internal/core/sheet"
)

// ---------------------- vocabulários ----------------------

// Categorias do relatório mensal de propostas (linhas só com rótulo).
var proposalCategories = []string{
	"DIGITADAS", "APROVADAS", "REPROVADAS", "PENDENTES", "CANCELADAS", "INTEGRADAS", "CONTAS ATIVAS",
}

// Categorias da visão consolidada de logística (aba 0).
var logisticsCategories = []string{
	"ENTREGAS", "COLETAS", "DEVOLUÇÕES", "INSUCESSOS", "EM ROTA", "AGENDADAS",
}

// Regiões da visão regional de logística (aba 1).
var logisticsRegions = []string{
	"NORTE", "NORDESTE", "CENTRO-OESTE", "SUDESTE", "SUL",
}

// Categorias do relatório diário de logística.
var logisticsDailyCategories = []string{
	"ENTREGAS", "COLETAS", "DEVOLUÇÕES", "INSUCESSOS", "DIGITADAS",
}

// Tipos de item do relatório de estoque.
var stockItemTypes = []string{
	"CARTÃO", "CARTÃO PLÁSTICO", "CARTA", "ENVELOPE", "ENCARTE", "BOBINA",
}

// ---------------------- perfis ----------------------

func proposalProfile() sheet.Profile {
	return sheet.Profile{
		Name:         "propostas",
		SectionState: sheet.InCategory,
		Openers:      sheet.NewVocabulary(proposalCategories...),
		Terminators:  sheet.NewVocabulary("TOTAL", "GERAL"),
		HeaderMode:   sheet.FixedColumns,
		Summaries:    true,
		BlankRow:     sheet.BlankStops,
		Numbers:      locale.Lenient,
	}
}

func logisticsCategoryProfile() sheet.Profile {
	return sheet.Profile{
		Name:                 "logistica-consolidado/categorias",
		SectionState:         sheet.InCategory,
		Openers:              sheet.NewVocabulary(logisticsCategories...),
		Terminators:          sheet.NewVocabulary("GERAL", "TOTAL"),
		TerminatorsReset:     true,
		HeaderMode:           sheet.SectionHeaders,
		MinDates:             1,
		SkipPercentCompanion: true,
		BlankRow:             sheet.BlankResets,
		Numbers:              locale.Strict,
	}
}

func logisticsRegionProfile() sheet.Profile {
	return sheet.Profile{
		Name:                 "logistica-consolidado/regioes",
		SectionState:         sheet.InRegion,
		Openers:              sheet.NewVocabulary(logisticsRegions...),
		Terminators:          sheet.NewVocabulary("GERAL", "TOTAL"),
		TerminatorsReset:     true,
		HeaderMode:           sheet.SectionHeaders,
		MinDates:             1,
		SkipPercentCompanion: true,
		BlankRow:             sheet.BlankResets,
		Numbers:              locale.Strict,
	}
}

func logisticsDailyProfile() sheet.Profile {
	return sheet.Profile{
		Name:                 "logistica-diaria",
		SectionState:         sheet.InCategory,
		Openers:              sheet.NewVocabulary(logisticsDailyCategories...),
		Terminators:          sheet.NewVocabulary("GERAL", "TOTAL", "INTEGRADAS"),
		TerminatorsReset:     true,
		HeaderMode:           sheet.SectionHeaders,
		MinDates:             1,
		SkipPercentCompanion: true,
		BlankRow:             sheet.BlankResets,
		Numbers:              locale.Strict,
	}
}

func stockProfile() sheet.Profile {
	return sheet.Profile{
		Name:                 "estoque",
		SectionState:         sheet.InItemBlock,
		Openers:              sheet.NewVocabulary(stockItemTypes...),
		Terminators:          sheet.NewVocabulary("TOTAL", "GERAL"),
		TerminatorsReset:     true,
		NonMetric:            sheet.NewVocabulary("COMPRA PERDA").WithPrefixes("OBSERVAÇÃO", "OBS"),
		HeaderMode:           sheet.SectionHeaders,
		MinDates:             1,
		SkipPercentCompanion: true,
		BlankRow:             sheet.BlankResets,
		Numbers:              locale.Strict,
	}
}
