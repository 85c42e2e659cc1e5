package chesscom

import "github.com/atelic/chess-dashboard-sub001/internal/domain"

// resultClass maps every raw Chess.com result code to a canonical outcome.
// Codes missing from this table classify as a draw, never as an error.
var resultClass = map[string]domain.Result{
	"win":                 domain.ResultWin,
	"checkmated":          domain.ResultLoss,
	"timeout":             domain.ResultLoss,
	"resigned":            domain.ResultLoss,
	"lose":                domain.ResultLoss,
	"abandoned":           domain.ResultLoss,
	"kingofthehill":       domain.ResultLoss,
	"threecheck":          domain.ResultLoss,
	"bughousepartnerlose": domain.ResultLoss,
	"agreed":              domain.ResultDraw,
	"repetition":          domain.ResultDraw,
	"stalemate":           domain.ResultDraw,
	"insufficient":        domain.ResultDraw,
	"50move":              domain.ResultDraw,
	"timevsinsufficient":  domain.ResultDraw,
}

func classifyResult(code string) domain.Result {
	if r, ok := resultClass[code]; ok {
		return r
	}
	return domain.ResultDraw
}

// terminationByCode maps a raw result code to the termination it implies.
var terminationByCode = map[string]domain.Termination{
	"checkmated":         domain.TerminationCheckmate,
	"timeout":            domain.TerminationTimeout,
	"timevsinsufficient": domain.TerminationTimeout,
	"resigned":           domain.TerminationResignation,
	"stalemate":          domain.TerminationStalemate,
	"insufficient":       domain.TerminationInsufficient,
	"repetition":         domain.TerminationRepetition,
	"agreed":             domain.TerminationAgreement,
	"abandoned":          domain.TerminationAbandoned,
}

// terminationPriority orders terminations so that when the two players carry
// different raw codes the more specific cause wins.
var terminationPriority = []domain.Termination{
	domain.TerminationCheckmate,
	domain.TerminationTimeout,
	domain.TerminationResignation,
	domain.TerminationStalemate,
	domain.TerminationInsufficient,
	domain.TerminationRepetition,
	domain.TerminationAgreement,
	domain.TerminationAbandoned,
}

// resolveTermination inspects both players' raw codes and picks the highest
// priority termination either implies.
func resolveTermination(whiteCode, blackCode string) domain.Termination {
	candidates := make(map[domain.Termination]bool, 2)
	if t, ok := terminationByCode[whiteCode]; ok {
		candidates[t] = true
	}
	if t, ok := terminationByCode[blackCode]; ok {
		candidates[t] = true
	}
	for _, t := range terminationPriority {
		if candidates[t] {
			return t
		}
	}
	return domain.TerminationOther
}
