package web

import "embed"

// StaticFS holds the embedded static assets (stylesheet and search box script).
//
//go:embed static/*
var StaticFS embed.FS
