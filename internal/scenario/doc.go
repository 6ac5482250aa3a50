// Package scenario handles visual-novel scenario content: the intermediate
// {"content": [...]} JSON format consumed and produced by the translation
// stage, and the extractor that builds it from raw engine script files
// (encoding detection, <PRE> block extraction, line classification).
package scenario
