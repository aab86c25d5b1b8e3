// Package ass models Advanced SubStation Alpha subtitle documents.
//
// Documents keep the [Script Info] block in file order, an ordered style
// table, and Dialogue/Comment events. Parse accepts ASS and legacy SSA input
// (SubRip through ParseSRT) and Marshal always writes ASS v4.00+ so every
// processed file leaves in one canonical shape. Sections the package does not
// understand (fonts, graphics, editor metadata) survive a round trip verbatim.
package ass
