// Package selection applies cross-filtering state to the record sets.
//
// A [Selection] holds three id sets: characters, conversations and themes.
// An empty set is inactive. Three passes recompute the Selected and
// Filtered flags in place:
//
//   - [FilterByCharacter] narrows songs to those whose selected singers
//     match the character set exactly, or that contain a selected
//     conversation, and keeps the diamonds anchored in surviving lines
//   - [FilterByTheme] keeps diamonds of selected themes and narrows lines
//     to those carrying a selected theme
//   - [Annotate] flags nodes, links and theme summaries and returns the
//     theme size scale
//
// The passes compound: the theme filter narrows the flags the character
// filter set, and the character filter resets every line flag it sees.
// [Engine.Apply] runs them in the only valid order, character, theme,
// annotate, always starting from the full record sets, so repeated calls
// with the same selection give identical flags.
package selection
