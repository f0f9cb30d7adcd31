package judge

import "fmt"

// All prompts are pt-BR: the game is played in Brazilian Portuguese and the
// judge's feedback is shown to players verbatim.

const ticketInstructions = "Você é um criador de chamados de suporte. Sempre responda em português brasileiro."

const ticketPrompt = "Gere um chamado de suporte fictício que servirá de estudo de caso em um jogo de perguntas e respostas. " +
	"Inclua um título curto e uma descrição detalhada (não tão longa) do problema. " +
	`Responda em JSON: {"title": string, "description": string, "difficulty": string}. ` +
	"O chamado deve ser plausível e em português brasileiro, e deve ter um nível de dificuldade (campo difficulty) entre 'easy', 'medium' ou 'hard'. " +
	"A dificuldade deve ser baseada em níveis de suporte (N1, N2, N3, etc.) ao gerar o chamado. Isso não deve estar explícito no chamado." +
	"Os chamados podem ter temas diversos, desde problemas em apps bancários, streaming de vídeo, e-commerces, jogos, etc. a ERPs e/ou " +
	"sistemas operacionais Windows, Android, iOS, etc. Evite termos muito técnicos na descrição do problema e repasse o problema como um usuário final."

const evaluateInstructions = "Você é um juiz especialista em suporte técnico para um jogo de perguntas e respostas. " +
	"Sempre responda em português brasileiro."

func evaluatePrompt(ticket, team, proposal string, round int) string {
	return fmt.Sprintf("Chamado de Suporte:\n%s\n\n", ticket) +
		fmt.Sprintf("O time %s propõe: %s\n\n", team, proposal) +
		fmt.Sprintf("Esta é a rodada %d de 6. Considere isso ao avaliar a resposta.\n\n", round) +
		fmt.Sprintf("Como um juiz especialista, avalie esta proposta (0-10) e fornecer uma dica (feedback) para o time %s. ", TeamLabel(team)) +
		"A dica deve destacar aleatoriamente algo que está certo ou errado na resposta, mas não entregue o bolo de uma só vez," +
		"continue instigando os times a pensar mais sobre a resposta, exceto que ela esteja excelente e resolva o problema.\n\n" +
		`Responda em JSON: {"score": número, "feedback": string, "isTheAnswerPerfect": booleano}. ` +
		"O feedback deve estar em português brasileiro. " +
		"O booleano isTheAnswerPerfect deve ser true se a resposta está perfeita e resolve o problema, ou false caso contrário." +
		"Sua resposta não deve ser grande (máximo 3 linhas)"
}

const summaryInstructions = "Você é um comentarista esportivo animado. Sempre responda em português brasileiro."

func summaryPrompt(ticket, transcript string) string {
	return "Resumo da partida do Supp Trivia!\n\n" +
		fmt.Sprintf("Chamado de Suporte:\n%s\n\n", ticket) +
		fmt.Sprintf("Transcrição das rodadas:%s\n\n", transcript) +
		"Faça um resumo divertido e descontraído da partida, destacando os melhores momentos, " +
		"o time vencedor, e encerrando com uma frase de efeito. Responda em português brasileiro."
}

// TeamLabel maps the wire team identifier to the color name players see.
func TeamLabel(team string) string {
	if team == "A" {
		return "Azul"
	}
	return "Laranja"
}
