// Copyright 2025 classroom-sheets. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package classroom-sheets automates the spreadsheet chores of running a lab course on Google Sheets
and Google Drive.

classroom-sheets is a command line tool built around a round-robin room allocator that assigns the
students in a roster to a set of rooms, over as many intervals (sessions) as are needed to seat
everybody.

classroom-sheets supports the following commands:

  - authorise, to authorise application access to Google Sheets and Google Drive
  - assign-rooms, to assign the students in a roster to rooms and publish the assignments as a shared spreadsheet
  - create-sheets, to create a copy of a template spreadsheet for each student
  - extract-grades, to collect the graded columns of the lab worksheets in a folder of spreadsheets into a CSV file
  - get, to download a roster from a Google Sheets worksheet as a TSV file
  - put, to store a TSV file to a Google Sheets worksheet
*/
package sheets
