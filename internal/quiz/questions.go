package quiz

// Question is one multiple-choice item with exactly one correct option.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"-"`
}

var defaultQuestions = []Question{
	{
		Prompt: "O que é mais importante ao receber o primeiro salário?",
		Options: []string{
			"Gastar tudo em compras",
			"Guardar uma parte e investir",
			"Emprestar para amigos",
			"Deixar parado na conta corrente",
		},
		Correct: 1,
	},
	{
		Prompt: "Qual a melhor forma de controlar gastos?",
		Options: []string{
			"Não se preocupar com isso",
			"Anotar todas as despesas",
			"Gastar apenas com cartão de crédito",
			"Evitar olhar o saldo",
		},
		Correct: 1,
	},
	{
		Prompt: "O que é um investimento?",
		Options: []string{
			"Gastar dinheiro em festas",
			"Aplicar dinheiro para ter retorno futuro",
			"Comprar roupas caras",
			"Viajar bastante",
		},
		Correct: 1,
	},
	{
		Prompt: "Qual é a regra de ouro do planejamento financeiro?",
		Options: []string{
			"Gastar tudo que ganhar",
			"Guardar o que sobrar",
			"Guardar primeiro, gastar depois",
			"Usar sempre o cheque especial",
		},
		Correct: 2,
	},
	{
		Prompt: "O que fazer com dívidas?",
		Options: []string{
			"Ignorá-las",
			"Fazer novas dívidas para pagar as antigas",
			"Negociar e pagar o quanto antes",
			"Esperar prescreverem",
		},
		Correct: 2,
	},
}

// Questions returns a copy of the fixed question set, in order.
func Questions() []Question {
	out := make([]Question, len(defaultQuestions))
	copy(out, defaultQuestions)
	return out
}
