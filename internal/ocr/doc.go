// Package ocr locates words on score pages using Tesseract (via
// gosseract/v2).
//
// The staff parser only needs to know WHERE text is, not what it says:
// symbol candidates covered by a word box (titles, lyrics, tempo and
// dynamics markings) can then be dropped before they are mistaken for
// notes. Locator implements detection.TextLocator for that purpose.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Other languages use their Tesseract codes ("deu", "fra", "ita"...) and
// the matching tesseract-ocr-<lang> package. Locator.TessdataPrefix points
// at a non-standard tessdata directory.
//
// # Filtering
//
// Music engraving contains many glyphs Tesseract will happily read as
// letters. Words are kept only when their confidence reaches
// MinConfidence and they contain at least MinLetters letters.
//
// # Performance
//
// OCR is by far the slowest part of a parse. It only runs when
// Config.SuppressText is enabled and a Locator is configured.
package ocr
