// Package update keeps generated artifacts consistent with their model
// types.
//
// Each request runs through a fixed sequence of stages:
//
//	Resolve -> Build -> Format -> Diff -> NoOp | Persist -> Done
//
// and may fail in any of them. The rendered text is compared with the
// persisted artifact after trimming surrounding whitespace; an artifact is
// only written when the texts differ, so repeated runs on an unchanged model
// perform no writes. Batches run units one after another and observe
// cancellation between units only.
package update
