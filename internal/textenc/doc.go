// Package textenc detects the character encoding of subtitle files and
// decodes them to UTF-8.
//
// Detection trusts a byte-order mark when one is present and otherwise asks
// a statistical detector for its best guess. Chinese legacy encodings are
// widened to GB18030, which decodes every GB2312 byte sequence and also the
// characters that GB2312 detectors routinely misreport.
package textenc
