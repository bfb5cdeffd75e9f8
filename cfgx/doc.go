// Package cfgx decodes loosely typed input (maps produced by koanf, plugin
// declarations read from files) into typed structs.
//
// Build runs four stages in order: defaults, preprocess, decode and validate.
// A failing stage is reported as a *StageError wrapping one of ErrDefaults,
// ErrPreprocess, ErrDecode or ErrValidate.
//
// Option catalog:
//   - Defaults: WithDefaults.
//   - Preprocessing: WithPreprocess, WithPreprocessEvalFuncs.
//   - Decoder behavior: WithDecodeHooks, WithStrictKeys, WithWeakTyping, WithTagName.
//   - Validation: WithValidator.
package cfgx
