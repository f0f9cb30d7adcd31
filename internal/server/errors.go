package server

// Player-facing error strings are pt-BR: the client surfaces them verbatim.
const (
	msgNicknameRequired  = "Nome de usuário necessário"
	msgRoomNotFound      = "Sala não encontrada"
	msgGameStarted       = "Jogo já começou"
	msgNicknameTaken     = "Nome de usuário já usado por alguém"
	msgRoomFull          = "Sala lotada"
	msgGameNotRunning    = "Jogo não está em andamento"
	msgNotYourTurn       = "Não é a vez do seu time"
	msgMissingTurnFields = "Faltam nickname ou time"
	msgReadyRequired     = "Nickname e ready (boolean) são obrigatórios"
	msgTicketFailed      = "Erro ao gerar chamado de suporte. Tente novamente."
	msgJudgeFailed       = "Erro ao avaliar a resposta. Tente novamente."
	msgSummaryFailed     = "Erro ao gerar resumo da partida. Tente novamente."
	msgInternal          = "Erro interno"
)
