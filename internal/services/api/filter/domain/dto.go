// Package domain holds the wire types of the filter control surface
package domain

import vdom "replyguard/internal/services/visibility/domain"

// ItemDTO is one observed reply
type ItemDTO struct {
	NodeKey string `json:"node_key" validate:"max=256"               example:"cell-42"`
	ID      string `json:"id"       validate:"max=64"                example:"1790012345678901234"`
	Author  string `json:"author"   validate:"omitempty,handle"      example:"@growthguru"`
	Text    string `json:"text"     validate:"max=10000"             example:"Great post! 🎉🎉🎉🎉🎉"`
	IsRoot  bool   `json:"is_root"`
}

// Item maps the DTO onto the visibility item
func (d ItemDTO) Item() vdom.Item {
	return vdom.Item{NodeKey: d.NodeKey, ID: d.ID, Author: d.Author, Text: d.Text, IsRoot: d.IsRoot}
}

// ItemsInput is a batch of observed replies
type ItemsInput struct {
	Items []ItemDTO `json:"items" validate:"required,min=1,dive"`
}

// ItemsReply acknowledges a batch
type ItemsReply struct {
	Accepted int `json:"accepted" example:"3"`
}

// NavigateInput describes the page the reader moved to
type NavigateInput struct {
	ThreadKey  string `json:"thread_key"  validate:"max=512"          example:"/someone/status/1790000000000000000"`
	IsThread   bool   `json:"is_thread"   example:"true"`
	RootAuthor string `json:"root_author" validate:"omitempty,handle" example:"someone"`
}

// NavigateReply names the new view
type NavigateReply struct {
	ViewID string `json:"view_id" example:"5f0e7c1e-3b0d-4a53-9c57-1f9a4a3c9e10"`
}

// RootAuthorInput resolves the thread author late
type RootAuthorInput struct {
	Author string `json:"author" validate:"required,handle" example:"someone"`
}

// EnabledInput flips the master switch
type EnabledInput struct {
	Enabled *bool `json:"enabled" validate:"required" example:"false"`
}

// SensitivityInput picks the hide threshold
type SensitivityInput struct {
	Sensitivity string `json:"sensitivity" validate:"required,oneof=low medium high" example:"high"`
}

// ShowInput sets the thread's revealed mode
type ShowInput struct {
	Show *bool `json:"show" validate:"required" example:"true"`
}

// ClassifyInput scores text without touching the session
type ClassifyInput struct {
	Text        string `json:"text"        validate:"required,max=10000"              example:"#crypto #nft #web3 #moon"`
	Sensitivity string `json:"sensitivity" validate:"omitempty,oneof=low medium high" example:"low"`
}

// Ack is the reply to control messages
type Ack struct {
	OK bool `json:"ok" example:"true"`
}
