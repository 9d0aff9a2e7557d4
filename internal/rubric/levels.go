package rubric

// ScoreLevelDescription describes an ENEM competency score. Only the six
// official levels (0, 40, ..., 200) have descriptions.
func ScoreLevelDescription(score int) string {
	switch score {
	case 0:
		return "Ausência completa da competência ou desclassificação"
	case 40:
		return "Demonstração muito fraca"
	case 80:
		return "Demonstração fraca com deficiências significativas"
	case 120:
		return "Demonstração razoável com algumas deficiências"
	case 160:
		return "Boa demonstração com deficiências menores"
	case 200:
		return "Excelente demonstração da competência"
	default:
		return "Pontuação inválida"
	}
}
