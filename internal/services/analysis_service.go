package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auctiontracker/internal/analysis"
	"auctiontracker/internal/finance"
	"auctiontracker/internal/logger"
	"auctiontracker/internal/models"
)

// User-facing analysis messages.
const (
	AnalysisDisabledMessage = "API Key do Gemini não configurada. A análise de IA está desativada."
	AnalysisFailedMessage   = "Ocorreu um erro ao tentar gerar a análise de IA. Por favor, tente novamente mais tarde."
	AnalysisEmptyMessage    = "Não foi possível gerar a análise."
)

// analysisService asks a text generator for an investment opinion on a
// property. It never fails: every problem becomes a fixed message.
type analysisService struct {
	generator analysis.TextGenerator
	timeout   time.Duration
}

// NewAnalysisService creates an AnalysisServicer. A nil generator disables
// the analysis.
func NewAnalysisService(generator analysis.TextGenerator, timeout time.Duration) AnalysisServicer {
	return &analysisService{generator: generator, timeout: timeout}
}

func (s *analysisService) Enabled() bool {
	return s.generator != nil
}

// AnalyzeProperty returns the generated analysis or one of the fixed messages.
func (s *analysisService) AnalyzeProperty(ctx context.Context, p *models.Property) string {
	if s.generator == nil {
		return AnalysisDisabledMessage
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, BuildAnalysisPrompt(p))
	if err != nil {
		logger.Get().Errorw("property analysis failed", "property_id", p.ID, "error", err)
		return AnalysisFailedMessage
	}
	if strings.TrimSpace(text) == "" {
		return AnalysisEmptyMessage
	}
	return text
}

// BuildAnalysisPrompt renders the analyst prompt for p.
func BuildAnalysisPrompt(p *models.Property) string {
	money := func(v float64) string { return finance.FormatCurrency(&v) }
	profit := finance.ProjectedProfit(*p)

	var b strings.Builder
	b.WriteString("Você é um especialista em análise de investimentos imobiliários de leilão.\n")
	b.WriteString("Analise o seguinte imóvel e forneça um parecer conciso sobre seu potencial de investimento.\n\n")
	b.WriteString("**Dados do Imóvel:**\n")
	fmt.Fprintf(&b, "- Título: %s\n", p.Title)
	fmt.Fprintf(&b, "- Tipo: %s\n", p.Type)
	fmt.Fprintf(&b, "- Localização: %s\n", p.Address)
	fmt.Fprintf(&b, "- Situação: %s\n", p.Situation)
	fmt.Fprintf(&b, "- Valor de Avaliação: %s\n", money(p.EvaluationValue))
	fmt.Fprintf(&b, "- Valor de Compra (Leilão): %s\n", money(p.PurchaseValue))
	fmt.Fprintf(&b, "- Preço de Venda Estimado: %s\n\n", money(p.EstimatedSalePrice))
	b.WriteString("**Cálculos Financeiros Preliminares:**\n")
	fmt.Fprintf(&b, "- Lucro Projetado: %s\n", money(profit))
	fmt.Fprintf(&b, "- ROI Projetado: %.2f%%\n\n", finance.ProjectedROI(*p))
	b.WriteString("**Seu Parecer:**\n")
	b.WriteString("(Seja direto e objetivo. Destaque os pontos fortes, os riscos e dê uma recomendação. Use markdown para formatação).\n")
	return b.String()
}
