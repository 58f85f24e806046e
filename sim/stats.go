package sim

// StatisticsVersion identifies the summary record layout.
const StatisticsVersion = 1

// Statistics is the end-of-run summary persisted as JSON.
type Statistics struct {
	Version         int     `json:"version"`
	TotalSteps      int     `json:"total_steps"`
	CaughtFlies     int     `json:"caught_flies"`
	Strikes         int     `json:"strikes"`
	SuccessRate     float64 `json:"success_rate"`
	FinalEnergy     float64 `json:"final_energy"`
	AverageDopamine float64 `json:"average_dopamine"`
	AverageActivity float64 `json:"average_activity"`
	Juvenile        bool    `json:"juvenile"`
	MeanWeight      float64 `json:"mean_synapse_weight"`
	Reinforced      int     `json:"reinforced_synapses"`
	Eliminated      int     `json:"eliminated_synapses"`
}

// Statistics summarizes the run so far.
func (w *World) Statistics() Statistics {
	a := w.Agent
	s := Statistics{
		Version:         StatisticsVersion,
		TotalSteps:      w.Tick,
		CaughtFlies:     a.CaughtFlies,
		Strikes:         a.Strikes,
		FinalEnergy:     a.Energy,
		AverageDopamine: a.Brain.AverageDopamine(),
		AverageActivity: a.Brain.AverageActivity(),
		Juvenile:        w.LastSnapshot.Juvenile,
		MeanWeight:      w.LastSnapshot.MeanSynapseWeight,
		Reinforced:      w.LastSnapshot.ReinforcedSynapses,
		Eliminated:      w.LastSnapshot.EliminatedSynapses,
	}
	if a.Strikes > 0 {
		s.SuccessRate = float64(a.CaughtFlies) / float64(a.Strikes)
	}
	return s
}
