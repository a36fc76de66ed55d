package tui

import "shopdesk/internal/models"

type collectionLoadedMsg struct {
	Collection string
	Records    []models.Record
}

type documentLoadedMsg struct {
	Target string
	Doc    models.Document
}

type StatusMsg struct {
	Message string
	IsError bool
}

type ClearStatusMsg struct{}
