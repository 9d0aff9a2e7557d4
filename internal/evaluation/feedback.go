package evaluation

import (
	"fmt"

	"neuronexus/internal/rubric"
	"neuronexus/pkg/types"
)

// Remarks per ENEM competency, indexed by score bucket 200, 160, 120, 80, 40
// and anything else.
var enemRemarks = map[string][6]string{
	"C1": {
		"Excelente domínio da norma culta da língua portuguesa. Uso adequado de gramática, ortografia e pontuação.",
		"Bom domínio da norma culta, com poucos desvios gramaticais.",
		"Domínio razoável, mas com alguns desvios que comprometem parcialmente a qualidade.",
		"Domínio insuficiente da norma culta, com muitos desvios gramaticais.",
		"Domínio muito precário da norma culta.",
		"Ausência de domínio da norma culta.",
	},
	"C2": {
		"Excelente compreensão do tema e desenvolvimento argumentativo consistente.",
		"Boa compreensão do tema com desenvolvimento adequado.",
		"Compreensão razoável do tema, desenvolvimento parcial.",
		"Compreensão superficial do tema.",
		"Compreensão muito limitada do tema.",
		"Não demonstrou compreensão do tema.",
	},
	"C3": {
		"Excelente seleção e organização de argumentos. Defesa consistente do ponto de vista.",
		"Boa organização argumentativa com argumentos relevantes.",
		"Organização razoável dos argumentos.",
		"Organização insuficiente dos argumentos.",
		"Organização muito precária.",
		"Ausência de organização argumentativa.",
	},
	"C4": {
		"Excelente articulação de ideias com uso adequado de conectivos e mecanismos coesivos.",
		"Boa articulação com uso adequado de conectivos.",
		"Articulação razoável entre as ideias.",
		"Articulação insuficiente das ideias.",
		"Articulação muito precária.",
		"Ausência de articulação.",
	},
	"C5": {
		"Proposta de intervenção completa e detalhada, respeitando os direitos humanos.",
		"Boa proposta de intervenção com detalhamento adequado.",
		"Proposta razoável, mas com falta de detalhamento.",
		"Proposta insuficiente ou pouco detalhada.",
		"Proposta muito precária.",
		"Ausência de proposta de intervenção.",
	},
}

const noRemark = "Feedback não disponível."

const enemTips = "Dicas gerais:\n" +
	"- Revise a estrutura dissertativo-argumentativa\n" +
	"- Pratique o uso de conectivos para melhorar a coesão\n" +
	"- Desenvolva propostas de intervenção mais detalhadas\n" +
	"- Amplie seu repertório sociocultural com leituras diversas"

func bucket(score int) int {
	switch score {
	case 200:
		return 0
	case 160:
		return 1
	case 120:
		return 2
	case 80:
		return 3
	case 40:
		return 4
	default:
		return 5
	}
}

// CriterionFeedback renders the feedback line for one criterion score.
func CriterionFeedback(exam types.ExamType, criterion string, score int) string {
	if exam != types.ExamEnem {
		return fmt.Sprintf("Critério %s: %d pontos", criterion, score)
	}
	remark := noRemark
	if table, ok := enemRemarks[criterion]; ok {
		remark = table[bucket(score)]
	}
	return fmt.Sprintf("%s (%d pontos)\n%s", rubric.ScoreLevelDescription(score), score, remark)
}

// PerformanceLabel maps an average competency score to a qualitative label.
func PerformanceLabel(average int) string {
	switch {
	case average >= 180:
		return "excelente"
	case average >= 140:
		return "bom"
	case average >= 100:
		return "razoável"
	case average >= 60:
		return "insuficiente"
	default:
		return "precário"
	}
}

// OverallFeedback renders the summary block. The average is taken over the
// scores the model returned, not over the rubric's criteria.
func OverallFeedback(exam types.ExamType, total int, scores []int) string {
	avg := 0
	if len(scores) > 0 {
		sum := 0
		for _, s := range scores {
			sum += s
		}
		avg = sum / len(scores)
	}
	label := PerformanceLabel(avg)
	if exam != types.ExamEnem {
		return fmt.Sprintf("Pontuação total: %d. Desempenho: %s", total, label)
	}
	return fmt.Sprintf("Pontuação total: %d/1000\n\n"+
		"Desempenho geral: %s\n\n"+
		"Sua redação demonstrou um desempenho %s nas competências avaliadas. "+
		"Continue praticando e atenção aos pontos que precisam de melhoria em cada competência.\n\n%s",
		total, label, label, enemTips)
}
