package rubric

import "neuronexus/pkg/types"

// Defaults returns fresh copies of the built-in rubrics.
func Defaults() []types.Rubric {
	return []types.Rubric{enem(), fuvest(), unesp()}
}

func enem() types.Rubric {
	return types.Rubric{
		ExamType:    types.ExamEnem,
		MaxScore:    1000,
		Description: "Redação do ENEM avaliada em 5 competências",
		Criteria: []types.Criterion{
			{
				Name:        "C1",
				Description: "Domínio da modalidade escrita formal da língua portuguesa",
				Weight:      0.2,
				MaxScore:    200,
				EvaluationPoints: []string{
					"Gramática e ortografia",
					"Sintaxe e concordância",
					"Pontuação e acentuação",
					"Uso adequado de conectivos",
				},
			},
			{
				Name:        "C2",
				Description: "Compreensão da proposta de redação e aplicação de conhecimentos",
				Weight:      0.2,
				MaxScore:    200,
				EvaluationPoints: []string{
					"Adequação ao tema proposto",
					"Estrutura dissertativo-argumentativa",
					"Uso de conhecimentos de diferentes áreas",
					"Não fuga ao tema",
				},
			},
			{
				Name:        "C3",
				Description: "Seleção, relação, organização e interpretação de informações",
				Weight:      0.2,
				MaxScore:    200,
				EvaluationPoints: []string{
					"Coerência lógica",
					"Qualidade dos argumentos",
					"Repertório sociocultural",
					"Defesa de ponto de vista",
				},
			},
			{
				Name:        "C4",
				Description: "Conhecimento dos mecanismos linguísticos de argumentação",
				Weight:      0.2,
				MaxScore:    200,
				EvaluationPoints: []string{
					"Coesão textual",
					"Uso de conectivos e operadores argumentativos",
					"Progressão temática",
					"Articulação entre parágrafos",
				},
			},
			{
				Name:        "C5",
				Description: "Proposta de intervenção respeitando direitos humanos",
				Weight:      0.2,
				MaxScore:    200,
				EvaluationPoints: []string{
					"Proposta clara e viável",
					"Detalhamento da ação",
					"Identificação de agentes sociais",
					"Respeito aos direitos humanos",
				},
			},
		},
	}
}

func fuvest() types.Rubric {
	return types.Rubric{
		ExamType:    types.ExamFuvest,
		MaxScore:    48,
		Description: "Redação da FUVEST avaliada em múltiplos critérios",
		Criteria: []types.Criterion{
			{
				Name:        "Estrutura",
				Description: "Organização textual e estrutura argumentativa",
				Weight:      0.33,
				MaxScore:    16,
				EvaluationPoints: []string{
					"Introdução, desenvolvimento e conclusão",
					"Progressão de ideias",
				},
			},
			{
				Name:        "Conteúdo",
				Description: "Qualidade argumentativa e repertório",
				Weight:      0.33,
				MaxScore:    16,
				EvaluationPoints: []string{
					"Argumentos consistentes",
					"Conhecimento do tema",
				},
			},
			{
				Name:        "Linguagem",
				Description: "Norma culta e coesão",
				Weight:      0.34,
				MaxScore:    16,
				EvaluationPoints: []string{
					"Gramática e ortografia",
					"Coesão e coerência",
				},
			},
		},
	}
}

func unesp() types.Rubric {
	return types.Rubric{
		ExamType:    types.ExamUnesp,
		MaxScore:    40,
		Description: "Avaliação de redação dissertativa-argumentativa conforme critérios da UNESP. Total de 40 pontos distribuídos em 5 competências (0-8 pontos cada).",
		Criteria: []types.Criterion{
			{
				Name:        "Adequação ao tema",
				Description: "Avalia se o texto aborda adequadamente o tema proposto e se há fuga parcial ou total do assunto.",
				Weight:      0.2,
				MaxScore:    8,
				EvaluationPoints: []string{
					"Abordagem completa e adequada ao tema (7-8 pontos)",
					"Abordagem parcial ou com leve desvio (4-6 pontos)",
					"Abordagem insuficiente ou desvio significativo (1-3 pontos)",
					"Fuga total do tema ou texto não desenvolvido (0 pontos)",
				},
			},
			{
				Name:        "Gênero textual",
				Description: "Avalia se o texto está adequado ao gênero dissertativo-argumentativo, com introdução, desenvolvimento e conclusão.",
				Weight:      0.2,
				MaxScore:    8,
				EvaluationPoints: []string{
					"Gênero adequado com estrutura completa e bem organizada (7-8 pontos)",
					"Gênero adequado com estrutura parcial ou organização razoável (4-6 pontos)",
					"Gênero inadequado ou estrutura confusa (1-3 pontos)",
					"Gênero completamente inadequado (0 pontos)",
				},
			},
			{
				Name:        "Coerência",
				Description: "Avalia a consistência lógica do texto, a progressão das ideias e a argumentação.",
				Weight:      0.2,
				MaxScore:    8,
				EvaluationPoints: []string{
					"Texto coerente com argumentação sólida e lógica (7-8 pontos)",
					"Texto geralmente coerente com pequenas inconsistências (4-6 pontos)",
					"Textos com inconsistências lógicas significativas (1-3 pontos)",
					"Texto incoerente ou sem lógica (0 pontos)",
				},
			},
			{
				Name:        "Coesão",
				Description: "Avalia os mecanismos de coesão textual: conectivos, referências, paralelismos e articulação entre parágrafos.",
				Weight:      0.2,
				MaxScore:    8,
				EvaluationPoints: []string{
					"Coesão adequada com uso correto de conectivos e articulações (7-8 pontos)",
					"Coesão razoável com alguns problemas de articulação (4-6 pontos)",
					"Coesão insuficiente com problemas significativos (1-3 pontos)",
					"Ausência de coesão ou texto fragmentado (0 pontos)",
				},
			},
			{
				Name:        "Correção gramatical",
				Description: "Avalia aspectos gramaticais: ortografia, acentuação, pontuação, concordância, regência e colocação pronominal.",
				Weight:      0.2,
				MaxScore:    8,
				EvaluationPoints: []string{
					"Domínio excelente da norma padrão com poucos ou nenhum erro (7-8 pontos)",
					"Bom domínio com alguns desvios da norma padrão (4-6 pontos)",
					"Domínio precário com muitos desvios (1-3 pontos)",
					"Domínio muito precário com erros graves e frequentes (0 pontos)",
				},
			},
		},
	}
}
