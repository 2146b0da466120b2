// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PhongVertexShader displaces surfaces by the wave tables and forwards
// view-space and light-space positions.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader shades with phong lighting and a shadow lookup.
//
//go:embed phong.frag
var PhongFragmentShader string

// ShadowVertexShader applies the same displacement as the phong pass so
// shadows follow the waves.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader writes depth only.
//
//go:embed shadow.frag
var ShadowFragmentShader string

// ScreenVertexShader passes a full-screen quad through.
//
//go:embed screen.vert
var ScreenVertexShader string

// ScreenFragmentShader combines the scene and bloom and tone maps the result.
//
//go:embed screen.frag
var ScreenFragmentShader string

// HighPassFragmentShader keeps pixels brighter than 1.
//
//go:embed high_pass.frag
var HighPassFragmentShader string

// BlurVerticalFragmentShader is one vertical gaussian step.
//
//go:embed blur_vertical.frag
var BlurVerticalFragmentShader string

// BlurHorizontalFragmentShader is one horizontal gaussian step.
//
//go:embed blur_horizontal.frag
var BlurHorizontalFragmentShader string
