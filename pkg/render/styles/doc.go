// Package styles draws the boxes and connectors of an organization chart.
//
// A [Style] receives positioned [Node] and [Connector] values from the SVG
// sink and writes SVG fragments. Two styles ship with the package:
//
//   - [Simple]: a rounded box with the employee's name and title
//   - [Card]: a card with photo, name, title and age, as in the directory page
//
// Use [ByName] to resolve the style named on the command line or in a query
// string.
package styles
