package module

import (
	"net/http"

	"replyguard/internal/modkit/swaggerkit"
	"replyguard/internal/services/api/filter/domain"
)

func document() {
	swaggerkit.Document(
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/items", Tag: "Filter", Summary: "Ingest observed replies",
			Body: domain.ItemsInput{Items: []domain.ItemDTO{{
				NodeKey: "cell-42", ID: "1790012345678901234", Author: "growthguru", Text: "Great post! 🎉🎉🎉🎉🎉",
			}}},
			Reply: domain.ItemsReply{Accepted: 1},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/navigate", Tag: "Filter", Summary: "Start a new view",
			Body:  domain.NavigateInput{ThreadKey: "/someone/status/1790000000000000000", IsThread: true, RootAuthor: "someone"},
			Reply: domain.NavigateReply{ViewID: "5f0e7c1e-3b0d-4a53-9c57-1f9a4a3c9e10"},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/navigate/root-author", Tag: "Filter", Summary: "Resolve the thread author after navigation",
			Body: domain.RootAuthorInput{Author: "someone"}, Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/control/enabled", Tag: "Control", Summary: "Turn the filter on or off",
			Body: map[string]bool{"enabled": false}, Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/control/sensitivity", Tag: "Control", Summary: "Change the hide threshold",
			Body: domain.SensitivityInput{Sensitivity: "high"}, Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/control/reset", Tag: "Control", Summary: "Zero today's hidden counter",
			Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodGet, Path: "/stats", Tag: "Control", Summary: "Daily and thread counters",
			Reply: map[string]int{"hiddenToday": 12, "hiddenInThread": 3},
		},
		swaggerkit.Operation{
			Method: http.MethodGet, Path: "/thread", Tag: "Thread", Summary: "Current view with per-reply state",
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/thread/toggle", Tag: "Thread", Summary: "Reveal hidden replies, or hide revealed ones",
			Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/thread/show", Tag: "Thread", Summary: "Set revealed mode",
			Body: map[string]bool{"show": true}, Reply: domain.Ack{OK: true},
		},
		swaggerkit.Operation{
			Method: http.MethodPost, Path: "/classify", Tag: "Diagnostics", Summary: "Score text without changing the session",
			Body: domain.ClassifyInput{Text: "#crypto #nft #web3 #moon", Sensitivity: "low"},
		},
	)
}
