// Package workflow drives the sequential translation stages: raw glossary
// extraction, glossary structuring, glossary loading, and content
// translation (scenario JSON folders or plain-text novels). Stages run one
// at a time and communicate only through the file artifacts in Config.
package workflow
