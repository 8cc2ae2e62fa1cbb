// Package dipole holds the time-domain input of the absorption pipeline: the
// induced dipole moment of a delta-kicked real-time simulation, sampled on a
// uniform time grid, one series per Cartesian axis.
//
// Input files are delimited tables with one discarded header row. The time
// column and the x/y/z dipole columns are located through [Columns]; the
// default layout is time in column 0 and dipole x, y, z in columns 2, 3, 4.
// Dipole values are read in Debye and converted to atomic units on load.
//
// # Usage
//
//	tr, err := dipole.LoadTrace("x.csv", "y.csv", "z.csv")
//	if err != nil {
//		return err
//	}
//	x := tr.Axis(dipole.AxisX)
//	fmt.Println(x.Len(), x.Step())
package dipole
